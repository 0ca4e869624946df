package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/order"
	"github.com/google/uuid"
)

func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error) {
	if input.BuyerID == "" || input.FarmerID == "" || input.BatchID == "" {
		return nil, fmt.Errorf("%w: buyer, farmer and batch are required", domain.ErrInvalidInput)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency %q", domain.ErrInvalidInput, input.Currency)
	}
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	if _, err := uc.Parties.FindByID(ctx, input.BuyerID); err != nil {
		return nil, fmt.Errorf("buyer: %w", err)
	}
	if _, err := uc.Parties.FindByID(ctx, input.FarmerID); err != nil {
		return nil, fmt.Errorf("farmer: %w", err)
	}

	quote, err := domain.ComputeQuote(input.TotalPrice, currency, uc.QuoteRules)
	if err != nil {
		return nil, err
	}

	orderNumber, err := uc.OrderNumbers.Next(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	order := &domain.Order{
		ID:                uuid.New().String(),
		OrderNumber:       orderNumber,
		BuyerID:           input.BuyerID,
		FarmerID:          input.FarmerID,
		BatchID:           input.BatchID,
		HubID:             input.HubID,
		HubName:           input.HubName,
		Region:            input.Region,
		Commodity:         input.Commodity,
		Quote:             quote,
		Currency:          currency,
		PaymentMethod:     method,
		PaymentStatus:     domain.PaymentPending,
		EscrowStatus:      domain.EscrowAwaitingPayment,
		TrackingStage:     domain.StageOrderPlaced,
		TrackingUpdatedAt: &now,
		TransferGroup:     "order_" + orderNumber,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordOrderCreated(string(method), currency)
	}
	slog.Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"payment_method", method,
		"amount_due_today", order.AmountDueToday.String(),
	)
	return order, nil
}

// StartCheckout opens a card checkout session for the amount due today.
// It is allowed again after a failed or expired payment.
func (uc *DefaultOrderUsecase) StartCheckout(ctx context.Context, orderID string) (*orderdto.CheckoutOutput, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.EscrowStatus != domain.EscrowAwaitingPayment || order.PaymentStatus == domain.PaymentDepositPaid {
		return nil, fmt.Errorf("%w: checkout on %s/%s", domain.ErrInvalidTransition, order.PaymentStatus, order.EscrowStatus)
	}
	if !uc.Cards.Enabled() {
		return nil, domain.NewPayoutError(domain.ErrProviderDisabled, domain.CodeProviderDisabled, "card processor is not configured")
	}

	buyer, err := uc.Parties.FindByID(ctx, order.BuyerID)
	if err != nil {
		return nil, fmt.Errorf("buyer: %w", err)
	}

	session, err := uc.Cards.CreateCheckoutSession(ctx, order, buyer)
	if err != nil {
		slog.Error("checkout session failed", "order_id", order.ID, "error", err)
		return nil, err
	}

	guard := domain.OrderGuard{
		PaymentStatuses: []domain.PaymentStatus{domain.PaymentPending, domain.PaymentFailed},
		EscrowStatuses:  []domain.EscrowStatus{domain.EscrowAwaitingPayment},
	}
	corr := domain.PaymentCorrelation{CheckoutSessionID: session.SessionID}
	if err := uc.OrderRepo.UpdateGuarded(ctx, order.ID, guard, corr.Changes()); err != nil {
		return nil, err
	}
	order.CheckoutSessionID = session.SessionID

	slog.Info("checkout session created", "order_id", order.ID, "session_id", session.SessionID)
	return &orderdto.CheckoutOutput{Order: order, Session: session}, nil
}
