package order

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	orderdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/order"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error)
	StartCheckout(ctx context.Context, orderID string) (*orderdto.CheckoutOutput, error)
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	TransitionPayment(ctx context.Context, orderID string, event domain.PaymentEvent, corr domain.PaymentCorrelation) (*domain.Order, error)
	TransitionEscrow(ctx context.Context, orderID string, event domain.EscrowEvent, corr domain.PaymentCorrelation) (*domain.Order, error)
	ConfirmDeposit(ctx context.Context, orderID string, corr domain.PaymentCorrelation) (*domain.Order, error)
	FailDeposit(ctx context.Context, orderID string, corr domain.PaymentCorrelation) (*domain.Order, error)
	AttachCorrelation(ctx context.Context, orderID string, corr domain.PaymentCorrelation) error

	UpdateTracking(ctx context.Context, input *orderdto.UpdateTrackingInput) (*domain.Order, error)
	Summary(ctx context.Context, orderID string) (*orderdto.SummaryOutput, error)
}

// DefaultOrderUsecase is the order ledger. Every status write goes through
// OrderRepository.UpdateGuarded with the legal source states as predicate.
type DefaultOrderUsecase struct {
	OrderRepo   domain.OrderRepository
	AuditRepo   domain.PayoutAuditRepository
	DisputeRepo domain.DisputeRepository
	Parties     domain.PartyDirectory
	Cards       domain.CardProcessor
	Publisher   domain.EventPublisher
	Metrics     *metrics.EscrowMetrics
	QuoteRules  domain.QuoteRules

	Now          func() time.Time
	OrderNumbers *OrderNumberGenerator
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	auditRepo domain.PayoutAuditRepository,
	disputeRepo domain.DisputeRepository,
	parties domain.PartyDirectory,
	cards domain.CardProcessor,
	publisher domain.EventPublisher,
	escrowMetrics *metrics.EscrowMetrics,
	rules domain.QuoteRules,
) *DefaultOrderUsecase {
	return &DefaultOrderUsecase{
		OrderRepo:    orderRepo,
		AuditRepo:    auditRepo,
		DisputeRepo:  disputeRepo,
		Parties:      parties,
		Cards:        cards,
		Publisher:    publisher,
		Metrics:      escrowMetrics,
		QuoteRules:   rules,
		Now:          time.Now,
		OrderNumbers: NewOrderNumberGenerator(orderRepo),
	}
}

func (uc *DefaultOrderUsecase) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(ctx, orderID)
}

func (uc *DefaultOrderUsecase) now() time.Time {
	return uc.Now().UTC()
}
