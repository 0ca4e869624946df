package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/order"
)

// UpdateTracking moves the logistics stage. cancelled is final.
func (uc *DefaultOrderUsecase) UpdateTracking(ctx context.Context, input *orderdto.UpdateTrackingInput) (*domain.Order, error) {
	stage, err := domain.ParseTrackingStage(input.Stage)
	if err != nil {
		return nil, err
	}
	order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.TrackingStage == domain.StageCancelled && stage != domain.StageCancelled {
		return nil, fmt.Errorf("%w: order %s is cancelled", domain.ErrInvalidTransition, order.ID)
	}

	now := uc.now()
	changes := domain.OrderChanges{TrackingStage: &stage, TrackingUpdatedAt: &now}
	if err := uc.OrderRepo.UpdateGuarded(ctx, order.ID, domain.OrderGuard{}, changes); err != nil {
		return nil, err
	}
	order.TrackingStage = stage
	order.TrackingUpdatedAt = &now

	slog.Info("tracking updated", "order_id", order.ID, "stage", stage)
	return order, nil
}

func (uc *DefaultOrderUsecase) Summary(ctx context.Context, orderID string) (*orderdto.SummaryOutput, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	audits, err := uc.AuditRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	disputes, err := uc.DisputeRepo.ListOpenByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &orderdto.SummaryOutput{
		Order:        order,
		PayoutAudits: audits,
		OpenDisputes: disputes,
		Timeline:     timeline(order),
	}, nil
}

func timeline(order *domain.Order) []orderdto.TimelineEntry {
	entries := []orderdto.TimelineEntry{{Label: "order_placed", At: order.CreatedAt.UTC().Format(time.RFC3339)}}
	add := func(label string, at *time.Time) {
		if at != nil {
			entries = append(entries, orderdto.TimelineEntry{Label: label, At: at.UTC().Format(time.RFC3339)})
		}
	}
	add("payment_confirmed", order.PaymentConfirmedAt)
	add("escrow_funded", order.EscrowFundedAt)
	if order.TrackingStage != domain.StageOrderPlaced {
		add(string(order.TrackingStage), order.TrackingUpdatedAt)
	}
	add("escrow_released", order.EscrowReleasedAt)
	return entries
}
