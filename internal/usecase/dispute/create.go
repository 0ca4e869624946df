package dispute

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
	"github.com/google/uuid"
)

// CreateDispute opens a dispute by hand. Order-level disputes inherit hub data
// from the order.
func (uc *DefaultDisputeUsecase) CreateDispute(ctx context.Context, input *disputedto.CreateDisputeInput) (*domain.Dispute, error) {
	issue := strings.TrimSpace(input.Issue)
	if issue == "" {
		return nil, fmt.Errorf("%w: issue is required", domain.ErrInvalidInput)
	}

	anomaly := domain.AnomalyManualReview
	if input.AnomalyType != "" {
		parsed, err := domain.ParseAnomalyType(input.AnomalyType)
		if err != nil {
			return nil, err
		}
		anomaly = parsed
	}
	severity := domain.SeverityMedium
	if input.Severity != "" {
		parsed, err := domain.ParseSeverity(input.Severity)
		if err != nil {
			return nil, err
		}
		severity = parsed
	}

	now := uc.now()
	d := &domain.Dispute{
		ID:              uuid.NewString(),
		HubID:           input.HubID,
		HubName:         input.HubName,
		Region:          input.Region,
		Commodity:       input.Commodity,
		Issue:           issue,
		AnomalyType:     anomaly,
		Severity:        severity,
		Status:          domain.DisputePendingReview,
		ConfidenceScore: 1,
		Source:          domain.SourceAdmin,
		LastActionAt:    &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if input.OrderID != "" {
		order, err := uc.OrderRepo.GetOrderByID(ctx, input.OrderID)
		if err != nil {
			return nil, err
		}
		orderID := order.ID
		d.OrderID = &orderID
		d.HubID = firstNonEmpty(d.HubID, order.HubID)
		d.HubName = firstNonEmpty(d.HubName, order.HubName)
		d.Region = firstNonEmpty(d.Region, order.Region)
		d.Commodity = firstNonEmpty(d.Commodity, order.Commodity)
	} else if d.HubID == "" {
		return nil, fmt.Errorf("%w: order_id or hub_id is required", domain.ErrInvalidInput)
	}

	actor := input.ActorRole
	if actor == "" {
		actor = domain.SourceAdmin
	}
	event := &domain.DisputeEvent{
		ID:         uuid.NewString(),
		DisputeID:  d.ID,
		Action:     domain.ActionCreate,
		ActorRole:  actor,
		Message:    issue,
		NextStatus: domain.DisputePendingReview,
		CreatedAt:  now,
	}
	if err := uc.DisputeRepo.Create(ctx, d, event); err != nil {
		return nil, err
	}
	d.Events = []domain.DisputeEvent{*event}

	if uc.Metrics != nil {
		uc.Metrics.RecordDisputeCreated(string(anomaly), domain.SourceAdmin)
	}
	slog.Info("dispute created", "dispute_id", d.ID, "order_id", deref(d.OrderID), "anomaly_type", anomaly)
	uc.publish(ctx, domain.EventDisputeCreated, d, issue)
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
