package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	releasedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/release"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/payout"
	"github.com/shopspring/decimal"
)

// ReleaseBatch pays out the oldest funded orders sequentially. Payout failures
// are reported per item and never abort the batch. The batch stops between
// orders when ctx is done and returns what it has so far.
func (uc *DefaultReleaseUsecase) ReleaseBatch(ctx context.Context, limit int, trigger string) (*releasedto.BatchReport, error) {
	started := uc.Now()
	limit = ClampLimit(limit)

	orders, err := uc.OrderRepo.ListReleasable(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("select releasable orders: %w", err)
	}

	report := &releasedto.BatchReport{TotalAmount: decimal.Zero, Items: make([]releasedto.ItemResult, 0, len(orders))}
	for _, candidate := range orders {
		if err := ctx.Err(); err != nil {
			slog.Warn("release batch interrupted", "trigger", trigger, "processed", len(report.Items), "selected", len(orders))
			uc.finish(report, trigger, started)
			return report, err
		}

		item, err := uc.releaseOne(ctx, candidate.ID, false)
		if err != nil {
			slog.Warn("order not released", "order_id", candidate.ID, "trigger", trigger, "error", err)
			item = releasedto.ItemResult{
				OrderID:     candidate.ID,
				OrderNumber: candidate.OrderNumber,
				Method:      candidate.PaymentMethod,
				Amount:      candidate.PayoutAmount(),
				Skipped:     errors.Is(err, domain.ErrReleaseInProgress) || errors.Is(err, domain.ErrInvalidTransition),
				ErrorCode:   skipCode(err),
				Error:       err.Error(),
			}
		}
		report.Add(item)
	}

	uc.finish(report, trigger, started)
	return report, nil
}

// ReleaseOrder releases a single order on buyer confirmation or operator
// retry. Unlike the batch it accepts release_failed orders.
func (uc *DefaultReleaseUsecase) ReleaseOrder(ctx context.Context, orderID string) (*releasedto.ItemResult, error) {
	started := uc.Now()
	item, err := uc.releaseOne(ctx, orderID, true)
	if err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordReleaseBatch(TriggerBuyer, uc.Now().Sub(started))
	}
	return &item, nil
}

// releaseOne holds the order lock for the whole attempt so two triggers can
// never pay the same order. A returned error means no payout was attempted.
// Any failure that may have reached a provider moves the order to
// release_failed so the batch never selects it again.
func (uc *DefaultReleaseUsecase) releaseOne(ctx context.Context, orderID string, allowRetry bool) (releasedto.ItemResult, error) {
	unlock, err := uc.Locker.Acquire(ctx, orderID)
	if err != nil {
		return releasedto.ItemResult{}, err
	}
	defer unlock()

	// a provider call, once dispatched, runs to completion or timeout
	ctx = context.WithoutCancel(ctx)

	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return releasedto.ItemResult{}, err
	}
	if !releasable(order, allowRetry) {
		return releasedto.ItemResult{}, fmt.Errorf("%w: order %s is %s/%s",
			domain.ErrInvalidTransition, order.ID, order.PaymentStatus, order.EscrowStatus)
	}

	sent, err := uc.priorPayout(ctx, order.ID)
	if err != nil {
		return releasedto.ItemResult{}, err
	}
	if sent != nil {
		return uc.settle(ctx, order, sent), nil
	}

	outcome, auditErr := uc.Payouts.Execute(ctx, order)
	if auditErr != nil {
		slog.Error("payout outcome not audited", "order_id", order.ID, "status", outcome.Status, "error", auditErr)
	}
	item := newItem(order, outcome)

	switch {
	case outcome.OK:
		corr := domain.PaymentCorrelation{TransferID: outcome.ExternalReference}
		if _, err := uc.Ledger.TransitionEscrow(ctx, order.ID, domain.EscrowEventReleased, corr); err != nil {
			// money has moved; the audit row is the source of truth for reconciliation
			slog.Error("payout succeeded but escrow not marked released", "order_id", order.ID, "reference", outcome.ExternalReference, "error", err)
			item.ErrorCode = CodeLedgerUpdate
			item.Error = "payout sent, ledger update pending reconciliation"
		}
	case outcome.Skipped:
		slog.Info("release skipped", "order_id", order.ID, "method", order.PaymentMethod, "status", outcome.Status)
	case domain.IsConfigurationError(outcome.Err) || errors.Is(outcome.Err, domain.ErrInvalidTransition):
		// nothing reached a provider: the order stays funded for a later retry
		slog.Warn("release left funded", "order_id", order.ID, "error_code", item.ErrorCode)
	default:
		// the outcome may be unknown, so the order leaves the batch until an operator retries it
		if _, err := uc.Ledger.TransitionEscrow(ctx, order.ID, domain.EscrowEventReleaseFailed, domain.PaymentCorrelation{}); err != nil {
			slog.Error("failed to mark release_failed", "order_id", order.ID, "error", err)
		}
		dispute, err := uc.Disputes.EscalatePayoutFailure(ctx, order, outcome)
		if err != nil {
			slog.Error("failed to escalate payout failure", "order_id", order.ID, "error", err)
		} else {
			item.DisputeID = dispute.ID
		}
	}
	return item, nil
}

// priorPayout returns the audit of a payout that already left for this order.
// An escrow that failed to move to released after such a payout is settled
// from the audit instead of paying the farmer again.
func (uc *DefaultReleaseUsecase) priorPayout(ctx context.Context, orderID string) (*domain.PayoutAudit, error) {
	audits, err := uc.Payouts.ListAudits(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payout audits: %w", err)
	}
	for _, audit := range audits {
		if audit.Status == domain.PayoutSucceeded || audit.Status == domain.PayoutSubmitted {
			return audit, nil
		}
	}
	return nil, nil
}

func (uc *DefaultReleaseUsecase) settle(ctx context.Context, order *domain.Order, sent *domain.PayoutAudit) releasedto.ItemResult {
	slog.Warn("payout already sent, settling escrow from audit", "order_id", order.ID, "audit_id", sent.ID, "reference", sent.ExternalReference)
	item := releasedto.ItemResult{
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		OK:                true,
		Status:            sent.Status,
		Method:            sent.Method,
		ExecutionMode:     sent.ExecutionMode,
		Amount:            sent.Amount,
		ExternalReference: sent.ExternalReference,
	}
	corr := domain.PaymentCorrelation{TransferID: sent.ExternalReference}
	if _, err := uc.Ledger.TransitionEscrow(ctx, order.ID, domain.EscrowEventReleased, corr); err != nil {
		slog.Error("escrow still not marked released", "order_id", order.ID, "reference", sent.ExternalReference, "error", err)
		item.ErrorCode = CodeLedgerUpdate
		item.Error = "payout sent, ledger update pending reconciliation"
	}
	return item
}

func releasable(order *domain.Order, allowRetry bool) bool {
	if allowRetry {
		return order.PayoutEligible()
	}
	return order.PaymentStatus == domain.PaymentDepositPaid && order.EscrowStatus == domain.EscrowFunded
}

func newItem(order *domain.Order, outcome domain.PayoutOutcome) releasedto.ItemResult {
	item := releasedto.ItemResult{
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		OK:                outcome.OK,
		Skipped:           outcome.Skipped,
		Status:            outcome.Status,
		Method:            outcome.Method,
		ExecutionMode:     outcome.ExecutionMode,
		Amount:            outcome.Amount,
		ExternalReference: outcome.ExternalReference,
	}
	if outcome.Err != nil {
		item.ErrorCode, item.Error = payout.ErrorDetails(outcome.Err)
	}
	return item
}

func skipCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrReleaseInProgress):
		return CodeReleaseInProgress
	case errors.Is(err, domain.ErrInvalidTransition):
		return domain.CodeOrderNotEligible
	case errors.Is(err, domain.ErrNotFound):
		return "ORDER_NOT_FOUND"
	}
	return "INTERNAL_ERROR"
}

func (uc *DefaultReleaseUsecase) finish(report *releasedto.BatchReport, trigger string, started time.Time) {
	if uc.Metrics != nil {
		uc.Metrics.RecordReleaseBatch(trigger, uc.Now().Sub(started))
	}
	slog.Info("release batch finished",
		"trigger", trigger,
		"released", report.Released,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"total_amount", report.TotalAmount.String(),
	)
}
