package payout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
)

// Rail moves money for one payment method. Implementations never record
// audits themselves; the usecase does that for every branch.
type Rail interface {
	Execute(ctx context.Context, order *domain.Order, farmer *domain.Party) domain.PayoutOutcome
}

type PayoutUsecase interface {
	Execute(ctx context.Context, order *domain.Order) (domain.PayoutOutcome, error)
	ListAudits(ctx context.Context, orderID string) ([]*domain.PayoutAudit, error)
}

type DefaultPayoutUsecase struct {
	Parties domain.PartyDirectory
	Audits  domain.PayoutAuditRepository
	Rails   map[domain.PaymentMethod]Rail
	Metrics *metrics.EscrowMetrics
	Now     func() time.Time
}

func NewDefaultPayoutUsecase(
	parties domain.PartyDirectory,
	audits domain.PayoutAuditRepository,
	rails map[domain.PaymentMethod]Rail,
	escrowMetrics *metrics.EscrowMetrics,
) *DefaultPayoutUsecase {
	return &DefaultPayoutUsecase{
		Parties: parties,
		Audits:  audits,
		Rails:   rails,
		Metrics: escrowMetrics,
		Now:     time.Now,
	}
}

// Execute runs one payout attempt and records exactly one audit for it,
// whatever the outcome. The returned error is only set when the audit itself
// could not be written.
func (uc *DefaultPayoutUsecase) Execute(ctx context.Context, order *domain.Order) (domain.PayoutOutcome, error) {
	started := uc.Now()
	outcome := uc.attempt(ctx, order)
	if outcome.ProcessedAt.IsZero() {
		outcome.ProcessedAt = uc.Now().UTC()
	}
	if outcome.Amount.IsZero() {
		outcome.Amount = order.PayoutAmount()
	}
	if outcome.Currency == "" {
		outcome.Currency = order.Currency
	}
	if outcome.Method == "" {
		outcome.Method = order.PaymentMethod
	}

	audit := toAudit(order, outcome)
	if uc.Metrics != nil {
		uc.Metrics.RecordPayout(string(audit.Method), string(audit.ExecutionMode), string(audit.Status),
			audit.ErrorCode, audit.Currency, audit.Amount.InexactFloat64(), uc.Now().Sub(started))
	}

	logArgs := []any{
		"order_id", order.ID,
		"method", audit.Method,
		"mode", audit.ExecutionMode,
		"status", audit.Status,
		"reference", audit.ExternalReference,
	}
	switch {
	case outcome.Err != nil:
		slog.Warn("payout attempt failed", append(logArgs, "error_code", audit.ErrorCode, "error", outcome.Err)...)
	case outcome.Skipped:
		slog.Info("payout skipped", logArgs...)
	default:
		slog.Info("payout executed", logArgs...)
	}

	if err := uc.Audits.Record(ctx, audit); err != nil {
		slog.Error("failed to record payout audit", "order_id", order.ID, "status", audit.Status, "error", err)
		return outcome, fmt.Errorf("record payout audit: %w", err)
	}
	return outcome, nil
}

func (uc *DefaultPayoutUsecase) attempt(ctx context.Context, order *domain.Order) domain.PayoutOutcome {
	if !order.PayoutEligible() {
		return uc.failure(order, domain.NewPayoutError(domain.ErrInvalidTransition, domain.CodeOrderNotEligible,
			fmt.Sprintf("order is %s/%s", order.PaymentStatus, order.EscrowStatus)))
	}

	rail, ok := uc.Rails[order.PaymentMethod]
	if !ok {
		return uc.failure(order, domain.NewPayoutError(domain.ErrUnsupportedPayoutMethod, domain.CodeUnsupportedMethod,
			fmt.Sprintf("payment method %q has no payout rail", order.PaymentMethod)))
	}

	farmer, err := uc.Parties.FindByID(ctx, order.FarmerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uc.failure(order, domain.NewPayoutError(domain.ErrNotFound, domain.CodeFarmerNotFound,
				fmt.Sprintf("farmer %s not found", order.FarmerID)))
		}
		return uc.failure(order, err)
	}

	return rail.Execute(ctx, order, farmer)
}

func (uc *DefaultPayoutUsecase) failure(order *domain.Order, err error) domain.PayoutOutcome {
	return domain.PayoutOutcome{
		Status:        domain.PayoutFailed,
		Provider:      providerFor(order.PaymentMethod),
		Method:        order.PaymentMethod,
		PaymentRail:   railFor(order.PaymentMethod),
		ExecutionMode: domain.ModeLive,
		Amount:        order.PayoutAmount(),
		Currency:      order.Currency,
		Err:           err,
		ProcessedAt:   uc.Now().UTC(),
	}
}

func (uc *DefaultPayoutUsecase) ListAudits(ctx context.Context, orderID string) ([]*domain.PayoutAudit, error) {
	return uc.Audits.ListByOrderID(ctx, orderID)
}

func toAudit(order *domain.Order, outcome domain.PayoutOutcome) *domain.PayoutAudit {
	audit := &domain.PayoutAudit{
		OrderID:           order.ID,
		Provider:          outcome.Provider,
		Method:            outcome.Method,
		PaymentRail:       outcome.PaymentRail,
		ExecutionMode:     outcome.ExecutionMode,
		Status:            outcome.Status,
		Amount:            outcome.Amount,
		Currency:          outcome.Currency,
		ExternalReference: outcome.ExternalReference,
		ProviderRequest:   snapshot(outcome.ProviderRequest),
		ProviderResponse:  rawSnapshot(outcome.ProviderResponse),
		ProcessedAt:       outcome.ProcessedAt,
	}
	if audit.Provider == "" {
		audit.Provider = providerFor(outcome.Method)
	}
	if audit.PaymentRail == "" {
		audit.PaymentRail = railFor(outcome.Method)
	}
	if audit.ExecutionMode == "" {
		audit.ExecutionMode = domain.ModeLive
	}
	if outcome.Err != nil {
		audit.Status = domain.PayoutFailed
		audit.ErrorCode, audit.ErrorMessage = ErrorDetails(outcome.Err)
		var payoutErr *domain.PayoutError
		if errors.As(outcome.Err, &payoutErr) && len(payoutErr.Response) > 0 && len(audit.ProviderResponse) == 0 {
			audit.ProviderResponse = rawSnapshot(payoutErr.Response)
		}
	}
	return audit
}

// ErrorDetails returns the audit error code and a caller-safe message for err.
func ErrorDetails(err error) (code, message string) {
	var payoutErr *domain.PayoutError
	if errors.As(err, &payoutErr) {
		return payoutErr.Code, payoutErr.Message
	}
	switch {
	case errors.Is(err, domain.ErrProviderTimeout):
		return domain.CodeProviderTimeout, err.Error()
	case errors.Is(err, domain.ErrProviderRejected):
		return domain.CodeProviderRejected, err.Error()
	case errors.Is(err, domain.ErrProviderDisabled):
		return domain.CodeProviderDisabled, err.Error()
	case errors.Is(err, domain.ErrPayoutNotConfigured):
		return domain.CodePayoutNotConfigured, err.Error()
	}
	return "INTERNAL_ERROR", err.Error()
}

func snapshot(v any) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// rawSnapshot keeps provider bodies as JSON; non-JSON bodies are stored as a
// JSON string so the jsonb column accepts them.
func rawSnapshot(raw []byte) []byte {
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return raw
	}
	b, _ := json.Marshal(string(raw))
	return b
}

func providerFor(method domain.PaymentMethod) string {
	switch method {
	case domain.MethodCard:
		return domain.ProviderCardProcessor
	case domain.MethodMomo, domain.MethodAirtel:
		return domain.ProviderMobileMoney
	case domain.MethodBank:
		return domain.ProviderBank
	}
	return "unknown"
}

func railFor(method domain.PaymentMethod) string {
	switch method {
	case domain.MethodCard:
		return domain.RailCardTransfer
	case domain.MethodMomo, domain.MethodAirtel:
		return domain.RailMobileMoney
	case domain.MethodBank:
		return domain.RailBankTransfer
	}
	return "unknown"
}
