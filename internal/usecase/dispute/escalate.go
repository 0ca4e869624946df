package dispute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/google/uuid"
)

// EscalatePayoutFailure keeps a single open payout_failure dispute per order.
// The first failure creates it at high/pending_escalation; later failures bump
// the same dispute and append to its timeline.
func (uc *DefaultDisputeUsecase) EscalatePayoutFailure(ctx context.Context, order *domain.Order, outcome domain.PayoutOutcome) (*domain.Dispute, error) {
	message := failureMessage(outcome)

	existing, err := uc.DisputeRepo.FindOpenByOrder(ctx, order.ID, domain.AnomalyPayoutFailure)
	switch {
	case err == nil:
		return uc.bump(ctx, existing, message)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	now := uc.now()
	orderID := order.ID
	d := &domain.Dispute{
		ID:              uuid.NewString(),
		OrderID:         &orderID,
		HubID:           order.HubID,
		HubName:         order.HubName,
		Region:          order.Region,
		Commodity:       order.Commodity,
		Issue:           fmt.Sprintf("Payout via %s failed", order.PaymentMethod),
		AnomalyType:     domain.AnomalyPayoutFailure,
		Severity:        domain.SeverityHigh,
		Status:          domain.DisputePendingEscalation,
		ConfidenceScore: 1,
		Source:          domain.SourcePayout,
		LastActionAt:    &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	event := &domain.DisputeEvent{
		ID:         uuid.NewString(),
		DisputeID:  d.ID,
		Action:     domain.ActionCreate,
		ActorRole:  domain.SourcePayout,
		Message:    message,
		NextStatus: domain.DisputePendingEscalation,
		CreatedAt:  now,
	}

	if err := uc.DisputeRepo.Create(ctx, d, event); err != nil {
		if !errors.Is(err, domain.ErrDuplicateOpenDispute) {
			return nil, err
		}
		// lost the insert race, escalate the winner instead
		existing, findErr := uc.DisputeRepo.FindOpenByOrder(ctx, order.ID, domain.AnomalyPayoutFailure)
		if findErr != nil {
			return nil, findErr
		}
		return uc.bump(ctx, existing, message)
	}
	d.Events = []domain.DisputeEvent{*event}

	if uc.Metrics != nil {
		uc.Metrics.RecordDisputeCreated(string(d.AnomalyType), d.Source)
		uc.Metrics.RecordDisputeEscalated(false)
	}
	slog.Warn("payout failure dispute opened", "order_id", order.ID, "dispute_id", d.ID, "error_code", outcomeCode(outcome))
	uc.publish(ctx, domain.EventDisputeCreated, d, message)
	uc.alert(d, message)
	return d, nil
}

func (uc *DefaultDisputeUsecase) bump(ctx context.Context, d *domain.Dispute, message string) (*domain.Dispute, error) {
	now := uc.now()
	event := &domain.DisputeEvent{
		ID:             uuid.NewString(),
		DisputeID:      d.ID,
		Action:         domain.ActionAutoEscalate,
		ActorRole:      domain.SourcePayout,
		Message:        message,
		PreviousStatus: d.Status,
		NextStatus:     domain.DisputePendingEscalation,
		CreatedAt:      now,
	}
	d.Severity = domain.SeverityHigh
	d.Status = domain.DisputePendingEscalation
	d.LastActionAt = &now
	d.UpdatedAt = now

	if err := uc.DisputeRepo.Apply(ctx, d, event); err != nil {
		return nil, err
	}
	d.Events = append(d.Events, *event)

	if uc.Metrics != nil {
		uc.Metrics.RecordDisputeEscalated(true)
	}
	slog.Warn("payout failure dispute escalated", "dispute_id", d.ID, "order_id", deref(d.OrderID), "events", len(d.Events))
	uc.publish(ctx, domain.EventDisputeEscalated, d, message)
	uc.alert(d, message)
	return d, nil
}

func (uc *DefaultDisputeUsecase) alert(d *domain.Dispute, message string) {
	if uc.Alerter != nil {
		uc.Alerter.DisputeEscalated(d, message)
	}
}

func failureMessage(outcome domain.PayoutOutcome) string {
	code := outcomeCode(outcome)
	if outcome.Err == nil {
		return code
	}
	var payoutErr *domain.PayoutError
	if errors.As(outcome.Err, &payoutErr) {
		msg := fmt.Sprintf("%s: %s", payoutErr.Code, payoutErr.Message)
		if errors.Is(outcome.Err, domain.ErrProviderTimeout) {
			msg += " (provider outcome unknown, reconcile before retrying)"
		}
		return msg
	}
	return fmt.Sprintf("%s: %v", code, outcome.Err)
}

func outcomeCode(outcome domain.PayoutOutcome) string {
	var payoutErr *domain.PayoutError
	if errors.As(outcome.Err, &payoutErr) {
		return payoutErr.Code
	}
	if errors.Is(outcome.Err, domain.ErrProviderTimeout) {
		return domain.CodeProviderTimeout
	}
	return domain.CodeProviderRejected
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
