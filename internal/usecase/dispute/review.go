package dispute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
	"github.com/google/uuid"
)

// ReviewDispute drives the admin review state machine. Every accepted action,
// comment included, appends one timeline event.
func (uc *DefaultDisputeUsecase) ReviewDispute(ctx context.Context, input *disputedto.ReviewDisputeInput) (*domain.Dispute, error) {
	action := domain.ReviewAction(strings.TrimSpace(input.Action))
	if action == domain.ActionCreate || action == domain.ActionAutoEscalate {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedAction, action)
	}

	d, err := uc.DisputeRepo.GetByID(ctx, input.DisputeID)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextDisputeStatus(d.Status, action)
	if err != nil {
		return nil, err
	}
	if action == domain.ActionComment && strings.TrimSpace(input.Comment) == "" {
		return nil, fmt.Errorf("%w: comment must not be empty", domain.ErrInvalidInput)
	}

	now := uc.now()
	actor := input.ActorRole
	if actor == "" {
		actor = domain.SourceAdmin
	}
	event := &domain.DisputeEvent{
		ID:             uuid.NewString(),
		DisputeID:      d.ID,
		Action:         action,
		ActorRole:      actor,
		Message:        input.Comment,
		PreviousStatus: d.Status,
		NextStatus:     next,
		CreatedAt:      now,
	}
	d.Status = next
	if action == domain.ActionEscalate {
		d.Severity = domain.SeverityHigh
	}
	d.LastActionAt = &now
	d.UpdatedAt = now

	if err := uc.DisputeRepo.Apply(ctx, d, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateOpenDispute) {
			return nil, fmt.Errorf("%w: another open dispute already covers this order", domain.ErrInvalidTransition)
		}
		return nil, err
	}
	d.Events = append(d.Events, *event)

	if uc.Metrics != nil {
		uc.Metrics.RecordDisputeReview(string(action))
	}
	slog.Info("dispute reviewed",
		"dispute_id", d.ID,
		"action", action,
		"actor_role", actor,
		"previous_status", event.PreviousStatus,
		"next_status", next,
	)
	uc.publish(ctx, domain.EventDisputeReviewed, d, input.Comment)
	if action == domain.ActionEscalate {
		uc.alert(d, input.Comment)
	}
	return d, nil
}
