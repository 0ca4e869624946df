package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
)

const (
	EventCheckoutCompleted          = "checkout.session.completed"
	EventCheckoutAsyncPaymentOK     = "checkout.session.async_payment_succeeded"
	EventCheckoutAsyncPaymentFailed = "checkout.session.async_payment_failed"
	EventCheckoutExpired            = "checkout.session.expired"
	EventPaymentIntentSucceeded     = "payment_intent.succeeded"
	EventPaymentIntentFailed        = "payment_intent.payment_failed"
	EventPaymentIntentCanceled      = "payment_intent.canceled"
)

type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeStale     Outcome = "stale"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// ErrRetryable wraps processing failures the provider should re-deliver.
var ErrRetryable = errors.New("webhook processing failed")

type WebhookUsecase interface {
	Ingest(ctx context.Context, payload []byte, signature string) (Outcome, error)
}

// DepositLedger is the part of the order ledger driven by provider events.
type DepositLedger interface {
	ConfirmDeposit(ctx context.Context, orderID string, corr domain.PaymentCorrelation) (*domain.Order, error)
	FailDeposit(ctx context.Context, orderID string, corr domain.PaymentCorrelation) (*domain.Order, error)
	AttachCorrelation(ctx context.Context, orderID string, corr domain.PaymentCorrelation) error
}

type DefaultWebhookUsecase struct {
	Parser    domain.WebhookParser
	OrderRepo domain.OrderRepository
	Ledger    DepositLedger
	Metrics   *metrics.EscrowMetrics
}

func NewDefaultWebhookUsecase(
	parser domain.WebhookParser,
	orderRepo domain.OrderRepository,
	ledger DepositLedger,
	escrowMetrics *metrics.EscrowMetrics,
) *DefaultWebhookUsecase {
	return &DefaultWebhookUsecase{
		Parser:    parser,
		OrderRepo: orderRepo,
		Ledger:    ledger,
		Metrics:   escrowMetrics,
	}
}

// Ingest verifies one provider delivery and applies it to the ledger.
// Signature and payload errors are returned as is; ledger failures are
// wrapped in ErrRetryable. Stale events for orders that already moved on are
// acknowledged without changes.
func (uc *DefaultWebhookUsecase) Ingest(ctx context.Context, payload []byte, signature string) (Outcome, error) {
	event, err := uc.Parser.Parse(payload, signature)
	if err != nil {
		slog.Warn("webhook rejected", "error", err)
		uc.record("unknown", OutcomeRejected)
		return OutcomeRejected, err
	}

	outcome, err := uc.dispatch(ctx, event)
	uc.record(event.Type, outcome)
	return outcome, err
}

func (uc *DefaultWebhookUsecase) dispatch(ctx context.Context, event *domain.ProviderEvent) (Outcome, error) {
	corr := domain.PaymentCorrelation{
		CheckoutSessionID: event.SessionID,
		PaymentIntentID:   event.PaymentIntentID,
		ChargeID:          event.ChargeID,
	}

	var apply func(orderID string) error
	switch event.Type {
	case EventCheckoutCompleted, EventCheckoutAsyncPaymentOK:
		if event.PaymentStatus != "paid" {
			// async methods settle later through async_payment_succeeded
			apply = func(orderID string) error { return uc.Ledger.AttachCorrelation(ctx, orderID, corr) }
			break
		}
		apply = func(orderID string) error {
			_, err := uc.Ledger.ConfirmDeposit(ctx, orderID, corr)
			return err
		}
	case EventCheckoutExpired, EventCheckoutAsyncPaymentFailed, EventPaymentIntentFailed, EventPaymentIntentCanceled:
		apply = func(orderID string) error {
			_, err := uc.Ledger.FailDeposit(ctx, orderID, corr)
			return err
		}
	case EventPaymentIntentSucceeded:
		apply = func(orderID string) error { return uc.Ledger.AttachCorrelation(ctx, orderID, corr) }
	default:
		slog.Debug("ignoring webhook event", "event_id", event.ID, "type", event.Type)
		return OutcomeIgnored, nil
	}

	orderID, err := uc.resolveOrder(ctx, event)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Warn("webhook for unknown order", "event_id", event.ID, "type", event.Type,
				"session_id", event.SessionID, "payment_intent_id", event.PaymentIntentID)
			return OutcomeIgnored, nil
		}
		return OutcomeFailed, fmt.Errorf("%w: %v", ErrRetryable, err)
	}

	if err := apply(orderID); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			slog.Warn("stale webhook ignored", "event_id", event.ID, "type", event.Type, "order_id", orderID, "error", err)
			return OutcomeStale, nil
		}
		slog.Error("webhook processing failed", "event_id", event.ID, "type", event.Type, "order_id", orderID, "error", err)
		return OutcomeFailed, fmt.Errorf("%w: %v", ErrRetryable, err)
	}

	slog.Info("webhook processed", "event_id", event.ID, "type", event.Type, "order_id", orderID, "signed", event.Signed)
	return OutcomeProcessed, nil
}

// resolveOrder trusts the order id the checkout carried, then falls back to
// the provider correlation ids stored on the order.
func (uc *DefaultWebhookUsecase) resolveOrder(ctx context.Context, event *domain.ProviderEvent) (string, error) {
	if event.OrderID != "" {
		order, err := uc.OrderRepo.GetOrderByID(ctx, event.OrderID)
		if err == nil {
			return order.ID, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
	}
	if event.SessionID != "" {
		order, err := uc.OrderRepo.FindByCheckoutSessionID(ctx, event.SessionID)
		if err == nil {
			return order.ID, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
	}
	if event.PaymentIntentID != "" {
		order, err := uc.OrderRepo.FindByPaymentIntentID(ctx, event.PaymentIntentID)
		if err == nil {
			return order.ID, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("webhook order: %w", domain.ErrNotFound)
}

func (uc *DefaultWebhookUsecase) record(eventType string, outcome Outcome) {
	if uc.Metrics != nil {
		uc.Metrics.RecordWebhookEvent(eventType, string(outcome))
	}
}
