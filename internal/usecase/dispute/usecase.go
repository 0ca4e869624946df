package dispute

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

type DisputeUsecase interface {
	Seed(ctx context.Context) (*disputedto.SeedOutput, error)
	EscalatePayoutFailure(ctx context.Context, order *domain.Order, outcome domain.PayoutOutcome) (*domain.Dispute, error)
	CreateDispute(ctx context.Context, input *disputedto.CreateDisputeInput) (*domain.Dispute, error)
	ReviewDispute(ctx context.Context, input *disputedto.ReviewDisputeInput) (*domain.Dispute, error)
	GetDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error)
	ListDisputes(ctx context.Context, input *disputedto.ListDisputesInput) (*disputedto.ListDisputesOutput, error)
}

type DefaultDisputeUsecase struct {
	DisputeRepo domain.DisputeRepository
	OrderRepo   domain.OrderRepository
	Publisher   domain.EventPublisher
	Alerter     domain.AdminAlerter
	Metrics     *metrics.EscrowMetrics
	Sampler     QualitySampler
	Now         func() time.Time
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	orderRepo domain.OrderRepository,
	publisher domain.EventPublisher,
	alerter domain.AdminAlerter,
	escrowMetrics *metrics.EscrowMetrics,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		DisputeRepo: disputeRepo,
		OrderRepo:   orderRepo,
		Publisher:   publisher,
		Alerter:     alerter,
		Metrics:     escrowMetrics,
		Sampler:     NewQualitySampler(),
		Now:         time.Now,
	}
}

func (uc *DefaultDisputeUsecase) now() time.Time {
	return uc.Now().UTC()
}

func (uc *DefaultDisputeUsecase) publish(ctx context.Context, eventType string, d *domain.Dispute, message string) {
	if uc.Publisher == nil {
		return
	}
	event := domain.DisputeLifecycleEvent{
		Type:        eventType,
		DisputeID:   d.ID,
		HubID:       d.HubID,
		AnomalyType: string(d.AnomalyType),
		Severity:    string(d.Severity),
		Status:      string(d.Status),
		Message:     message,
	}
	if d.OrderID != nil {
		event.OrderID = *d.OrderID
	}
	uc.Publisher.PublishDisputeEvent(ctx, event)
}
