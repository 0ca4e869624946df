package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

// TransitionPayment applies one payment event. The update is guarded by every
// state the event is legal from, so a concurrent writer that moved the row
// first turns this call into ErrInvalidTransition instead of an overwrite.
func (uc *DefaultOrderUsecase) TransitionPayment(ctx context.Context, orderID string, event domain.PaymentEvent, corr domain.PaymentCorrelation) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextPaymentStatus(order.PaymentStatus, event)
	if err != nil {
		slog.Warn("rejected payment transition", "order_id", orderID, "event", event, "payment_status", order.PaymentStatus)
		return nil, err
	}

	now := uc.now()
	changes := domain.OrderChanges{PaymentStatus: &next}.WithCorrelation(corr)
	if next == domain.PaymentDepositPaid {
		changes.PaymentConfirmedAt = &now
	}
	guard := domain.OrderGuard{PaymentStatuses: domain.PaymentSources(event)}
	if err := uc.OrderRepo.UpdateGuarded(ctx, orderID, guard, changes); err != nil {
		return nil, err
	}

	order.PaymentStatus = next
	if changes.PaymentConfirmedAt != nil {
		order.PaymentConfirmedAt = &now
	}
	applyCorrelation(order, corr)
	return order, nil
}

// TransitionEscrow applies one escrow event. released is terminal.
func (uc *DefaultOrderUsecase) TransitionEscrow(ctx context.Context, orderID string, event domain.EscrowEvent, corr domain.PaymentCorrelation) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextEscrowStatus(order.EscrowStatus, event)
	if err != nil {
		slog.Warn("rejected escrow transition", "order_id", orderID, "event", event, "escrow_status", order.EscrowStatus)
		return nil, err
	}

	now := uc.now()
	changes := domain.OrderChanges{EscrowStatus: &next}.WithCorrelation(corr)
	guard := domain.OrderGuard{EscrowStatuses: domain.EscrowSources(event)}
	switch next {
	case domain.EscrowFunded:
		changes.EscrowFundedAt = &now
		guard.PaymentStatuses = []domain.PaymentStatus{domain.PaymentDepositPaid}
	case domain.EscrowReleased:
		changes.EscrowReleasedAt = &now
		guard.PaymentStatuses = []domain.PaymentStatus{domain.PaymentDepositPaid}
	}
	if err := uc.OrderRepo.UpdateGuarded(ctx, orderID, guard, changes); err != nil {
		return nil, err
	}

	order.EscrowStatus = next
	switch next {
	case domain.EscrowFunded:
		order.EscrowFundedAt = &now
	case domain.EscrowReleased:
		order.EscrowReleasedAt = &now
	}
	applyCorrelation(order, corr)
	uc.publishEscrow(ctx, order, corr.TransferID)
	return order, nil
}

// ConfirmDeposit records a paid checkout: deposit_paid and funded in one
// guarded write so the order is never observed paid but unfunded.
func (uc *DefaultOrderUsecase) ConfirmDeposit(ctx context.Context, orderID string, corr domain.PaymentCorrelation) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payment, err := domain.NextPaymentStatus(order.PaymentStatus, domain.PaymentEventConfirmed)
	if err != nil {
		return nil, err
	}
	escrow, err := domain.NextEscrowStatus(order.EscrowStatus, domain.EscrowEventFunded)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	changes := domain.OrderChanges{
		PaymentStatus:      &payment,
		EscrowStatus:       &escrow,
		PaymentConfirmedAt: &now,
		EscrowFundedAt:     &now,
	}.WithCorrelation(corr)
	guard := domain.OrderGuard{
		PaymentStatuses: domain.PaymentSources(domain.PaymentEventConfirmed),
		EscrowStatuses:  domain.EscrowSources(domain.EscrowEventFunded),
	}
	if err := uc.OrderRepo.UpdateGuarded(ctx, orderID, guard, changes); err != nil {
		return nil, err
	}

	order.PaymentStatus = payment
	order.EscrowStatus = escrow
	order.PaymentConfirmedAt = &now
	order.EscrowFundedAt = &now
	applyCorrelation(order, corr)

	if uc.Metrics != nil {
		uc.Metrics.RecordEscrowFunded(order.Currency, order.DepositAmount.InexactFloat64())
	}
	slog.Info("escrow funded", "order_id", order.ID, "deposit", order.DepositAmount.String(), "currency", order.Currency)
	uc.publishEscrow(ctx, order, "")
	return order, nil
}

// FailDeposit marks the deposit failed and leaves escrow awaiting payment so
// the buyer can retry checkout. It never touches a funded or released order.
func (uc *DefaultOrderUsecase) FailDeposit(ctx context.Context, orderID string, corr domain.PaymentCorrelation) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.EscrowStatus != domain.EscrowAwaitingPayment {
		return nil, fmt.Errorf("%w: payment failure on escrow %s", domain.ErrInvalidTransition, order.EscrowStatus)
	}
	payment, err := domain.NextPaymentStatus(order.PaymentStatus, domain.PaymentEventFailed)
	if err != nil {
		return nil, err
	}

	changes := domain.OrderChanges{PaymentStatus: &payment}.WithCorrelation(corr)
	guard := domain.OrderGuard{
		PaymentStatuses: domain.PaymentSources(domain.PaymentEventFailed),
		EscrowStatuses:  []domain.EscrowStatus{domain.EscrowAwaitingPayment},
	}
	if err := uc.OrderRepo.UpdateGuarded(ctx, orderID, guard, changes); err != nil {
		return nil, err
	}

	order.PaymentStatus = payment
	applyCorrelation(order, corr)
	slog.Info("deposit failed", "order_id", order.ID)
	return order, nil
}

// AttachCorrelation stores provider ids without touching any status.
func (uc *DefaultOrderUsecase) AttachCorrelation(ctx context.Context, orderID string, corr domain.PaymentCorrelation) error {
	changes := corr.Changes()
	if changes.Empty() {
		return nil
	}
	return uc.OrderRepo.UpdateGuarded(ctx, orderID, domain.OrderGuard{}, changes)
}

func (uc *DefaultOrderUsecase) publishEscrow(ctx context.Context, order *domain.Order, reference string) {
	if uc.Publisher == nil {
		return
	}
	eventType := ""
	switch order.EscrowStatus {
	case domain.EscrowFunded:
		eventType = domain.EventEscrowFunded
	case domain.EscrowReleased:
		eventType = domain.EventEscrowReleased
	case domain.EscrowReleaseFailed:
		eventType = domain.EventEscrowReleaseFailed
	default:
		return
	}
	uc.Publisher.PublishEscrowEvent(ctx, domain.EscrowLifecycleEvent{
		Type:          eventType,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		FarmerID:      order.FarmerID,
		BuyerID:       order.BuyerID,
		PaymentMethod: string(order.PaymentMethod),
		EscrowStatus:  string(order.EscrowStatus),
		Amount:        order.DepositAmount.String(),
		Currency:      order.Currency,
		Reference:     reference,
	})
}

func applyCorrelation(order *domain.Order, corr domain.PaymentCorrelation) {
	if corr.CheckoutSessionID != "" {
		order.CheckoutSessionID = corr.CheckoutSessionID
	}
	if corr.PaymentIntentID != "" {
		order.PaymentIntentID = corr.PaymentIntentID
	}
	if corr.ChargeID != "" {
		order.ChargeID = corr.ChargeID
	}
	if corr.TransferID != "" {
		order.TransferID = corr.TransferID
	}
}
