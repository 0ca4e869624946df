package release

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/payout"
	releasedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/release"
)

const (
	DefaultBatchLimit = 10
	MaxBatchLimit     = 100
)

const (
	TriggerOperator  = "operator"
	TriggerScheduler = "scheduler"
	TriggerBuyer     = "buyer"
)

// Item error codes that never reach the payout audit because no attempt was made.
const (
	CodeReleaseInProgress = "RELEASE_IN_PROGRESS"
	CodeLedgerUpdate      = "LEDGER_UPDATE_FAILED"
)

type ReleaseUsecase interface {
	ReleaseBatch(ctx context.Context, limit int, trigger string) (*releasedto.BatchReport, error)
	ReleaseOrder(ctx context.Context, orderID string) (*releasedto.ItemResult, error)
}

// EscrowLedger is the part of the order ledger the orchestrator drives.
type EscrowLedger interface {
	TransitionEscrow(ctx context.Context, orderID string, event domain.EscrowEvent, corr domain.PaymentCorrelation) (*domain.Order, error)
}

type Escalator interface {
	EscalatePayoutFailure(ctx context.Context, order *domain.Order, outcome domain.PayoutOutcome) (*domain.Dispute, error)
}

// DefaultReleaseUsecase walks eligible orders one at a time. Each order is
// locked, re-read and paid out before the next one is touched.
type DefaultReleaseUsecase struct {
	OrderRepo domain.OrderRepository
	Ledger    EscrowLedger
	Payouts   payout.PayoutUsecase
	Disputes  Escalator
	Locker    domain.ReleaseLocker
	Metrics   *metrics.EscrowMetrics
	Now       func() time.Time
}

func NewDefaultReleaseUsecase(
	orderRepo domain.OrderRepository,
	ledger EscrowLedger,
	payouts payout.PayoutUsecase,
	disputes Escalator,
	locker domain.ReleaseLocker,
	escrowMetrics *metrics.EscrowMetrics,
) *DefaultReleaseUsecase {
	return &DefaultReleaseUsecase{
		OrderRepo: orderRepo,
		Ledger:    ledger,
		Payouts:   payouts,
		Disputes:  disputes,
		Locker:    locker,
		Metrics:   escrowMetrics,
		Now:       time.Now,
	}
}

// ClampLimit applies the batch default and bounds.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultBatchLimit
	case limit > MaxBatchLimit:
		return MaxBatchLimit
	}
	return limit
}
