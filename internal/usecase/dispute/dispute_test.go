package dispute

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/metrics"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/memstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type recordingAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *recordingAlerter) DisputeEscalated(_ *domain.Dispute, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

func newUsecase(orders ...*domain.Order) (*DefaultDisputeUsecase, *memstore.Disputes, *memstore.Publisher, *recordingAlerter) {
	disputes := memstore.NewDisputes()
	publisher := &memstore.Publisher{}
	alerter := &recordingAlerter{}
	uc := NewDefaultDisputeUsecase(disputes, memstore.NewOrders(orders...), publisher, alerter, nil)
	uc.Now = func() time.Time { return testNow }
	return uc, disputes, publisher, alerter
}

func inspectionOrder(id, hub string, age time.Duration) *domain.Order {
	updated := testNow.Add(-age)
	return &domain.Order{
		ID:                id,
		HubID:             hub,
		HubName:           "Hub " + hub,
		Commodity:         "maize",
		PaymentStatus:     domain.PaymentDepositPaid,
		EscrowStatus:      domain.EscrowFunded,
		TrackingStage:     domain.StageHubInspection,
		TrackingUpdatedAt: &updated,
		CreatedAt:         updated,
	}
}

func TestHashIsDeterministic(t *testing.T) {
	assert.Equal(t, int64(100), Hash("d"))
	assert.Equal(t, int64(96354), Hash("abc"))

	long := strings.Repeat("order-with-a-very-long-identifier", 8)
	assert.Equal(t, Hash(long), Hash(long))
	assert.GreaterOrEqual(t, Hash(long), int64(0))

	sampler := NewQualitySampler()
	assert.True(t, sampler.Sampled("d"))
	assert.False(t, sampler.Sampled("abc"))
}

func TestClassifyPrecedence(t *testing.T) {
	sampler := NewQualitySampler()

	failed := inspectionOrder("d", "h1", 72*time.Hour)
	failed.EscrowStatus = domain.EscrowReleaseFailed
	got := Classify(failed, testNow, sampler)
	require.NotNil(t, got)
	assert.Equal(t, domain.AnomalyPaymentReconciliation, got.Type)
	assert.Equal(t, domain.SeverityHigh, got.Severity)
	assert.Equal(t, 0.95, got.Confidence)

	breach := Classify(inspectionOrder("d", "h1", 49*time.Hour), testNow, sampler)
	require.NotNil(t, breach)
	assert.Equal(t, domain.AnomalyInspectionSLA, breach.Type)
	assert.Equal(t, domain.SeverityHigh, breach.Severity)

	warn := Classify(inspectionOrder("d", "h1", 25*time.Hour), testNow, sampler)
	require.NotNil(t, warn)
	assert.Equal(t, domain.SeverityMedium, warn.Severity)
	assert.Equal(t, 0.75, warn.Confidence)

	sampled := Classify(inspectionOrder("d", "h1", time.Hour), testNow, sampler)
	require.NotNil(t, sampled)
	assert.Equal(t, domain.AnomalyQualityVariance, sampled.Type)
	assert.Equal(t, domain.SeverityLow, sampled.Severity)

	assert.Nil(t, Classify(inspectionOrder("abc", "h1", time.Hour), testNow, sampler))

	delivered := inspectionOrder("d", "h1", time.Hour)
	delivered.TrackingStage = domain.StageDelivered
	assert.Nil(t, Classify(delivered, testNow, sampler))
}

func TestDeriveAddsHubBacklogDispute(t *testing.T) {
	orders := []*domain.Order{
		inspectionOrder("s1", "h2", 30*time.Hour),
		inspectionOrder("s2", "h2", 30*time.Hour),
		inspectionOrder("s3", "h2", 30*time.Hour),
		inspectionOrder("s4", "h3", 30*time.Hour),
	}
	derived := Derive(orders, testNow, NewQualitySampler())
	require.Len(t, derived, 5)

	hubLevel := derived[4]
	assert.Nil(t, hubLevel.OrderID)
	assert.Equal(t, "h2", hubLevel.HubID)
	assert.Equal(t, "Hub inspection backlog over 24h", hubLevel.Issue)
	assert.Equal(t, domain.SeverityHigh, hubLevel.Severity)
	assert.Equal(t, domain.SourceSystem, hubLevel.Source)
	require.Len(t, hubLevel.Events, 1)
	assert.Equal(t, domain.ActionCreate, hubLevel.Events[0].Action)
}

func TestSeedIsIdempotent(t *testing.T) {
	failed := inspectionOrder("f1", "h1", time.Hour)
	failed.EscrowStatus = domain.EscrowReleaseFailed
	uc, disputes, _, _ := newUsecase(
		failed,
		inspectionOrder("d", "h1", time.Hour),
		inspectionOrder("abc", "h1", time.Hour),
		inspectionOrder("s1", "h2", 30*time.Hour),
		inspectionOrder("s2", "h2", 30*time.Hour),
		inspectionOrder("s3", "h2", 30*time.Hour),
	)
	ctx := context.Background()

	first, err := uc.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.Equal(t, int64(6), first.Created)

	second, err := uc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, second.Skipped)

	// a racing seeder that passed the empty check still inserts nothing
	orders, err := uc.OrderRepo.ListForDerivation(ctx)
	require.NoError(t, err)
	inserted, err := disputes.InsertIgnoreConflicts(ctx, Derive(orders, testNow, uc.Sampler))
	require.NoError(t, err)
	assert.Empty(t, inserted)

	count, err := disputes.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

// emptyLooking reports an empty store, as seen by a seeder that raced another.
type emptyLooking struct {
	*memstore.Disputes
}

func (emptyLooking) Count(context.Context) (int64, error) { return 0, nil }

func TestSeedCountsOnlyInsertedDisputes(t *testing.T) {
	uc, disputes, _, _ := newUsecase(
		inspectionOrder("d", "h1", time.Hour),
		inspectionOrder("abc", "h1", time.Hour),
		inspectionOrder("s1", "h2", 30*time.Hour),
		inspectionOrder("s2", "h2", 30*time.Hour),
	)
	reg := prometheus.NewRegistry()
	uc.Metrics = metrics.NewEscrowMetrics(reg)
	uc.DisputeRepo = emptyLooking{disputes}
	ctx := context.Background()

	orders, err := uc.OrderRepo.ListForDerivation(ctx)
	require.NoError(t, err)
	derived := Derive(orders, testNow, uc.Sampler)
	require.Greater(t, len(derived), 2)
	early, err := disputes.InsertIgnoreConflicts(ctx, derived[:2])
	require.NoError(t, err)
	require.Len(t, early, 2)

	out, err := uc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(derived)-2), out.Created)

	families, err := reg.Gather()
	require.NoError(t, err)
	var recorded float64
	for _, family := range families {
		if family.GetName() != "escrow_disputes_created_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			recorded += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(len(derived)-2), recorded)

	count, err := disputes.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(derived)), count)
}

func TestEscalatePayoutFailureKeepsOneOpenDispute(t *testing.T) {
	order := inspectionOrder("o1", "h1", time.Hour)
	order.PaymentMethod = domain.MethodCard
	uc, disputes, publisher, alerter := newUsecase(order)
	ctx := context.Background()

	outcome := domain.PayoutOutcome{
		Method: domain.MethodCard,
		Err:    domain.NewPayoutError(domain.ErrProviderRejected, domain.CodeProviderRejected, "insufficient platform balance"),
	}
	first, err := uc.EscalatePayoutFailure(ctx, order, outcome)
	require.NoError(t, err)
	second, err := uc.EscalatePayoutFailure(ctx, order, outcome)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := disputes.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AnomalyPayoutFailure, stored.AnomalyType)
	assert.Equal(t, domain.SeverityHigh, stored.Severity)
	assert.Equal(t, domain.DisputePendingEscalation, stored.Status)
	assert.Equal(t, domain.SourcePayout, stored.Source)
	require.Len(t, stored.Events, 2)
	assert.Equal(t, domain.ActionCreate, stored.Events[0].Action)
	assert.Equal(t, domain.ActionAutoEscalate, stored.Events[1].Action)
	assert.Contains(t, stored.Events[1].Message, "PROVIDER_REJECTED")

	open, err := disputes.ListOpenByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, open, 1)

	assert.Equal(t, []string{domain.EventDisputeCreated, domain.EventDisputeEscalated}, publisher.DisputeTypes())
	assert.Len(t, alerter.messages, 2)
}

func TestEscalateTimeoutAsksForReconciliation(t *testing.T) {
	order := inspectionOrder("o1", "h1", time.Hour)
	uc, _, _, _ := newUsecase(order)

	d, err := uc.EscalatePayoutFailure(context.Background(), order, domain.PayoutOutcome{
		Err: domain.NewPayoutError(domain.ErrProviderTimeout, domain.CodeProviderTimeout, "deadline exceeded"),
	})
	require.NoError(t, err)
	require.Len(t, d.Events, 1)
	assert.Contains(t, d.Events[0].Message, "reconcile")
}

func TestReviewDisputeStateMachine(t *testing.T) {
	order := inspectionOrder("o1", "h1", time.Hour)
	uc, _, publisher, _ := newUsecase(order)
	ctx := context.Background()

	d, err := uc.CreateDispute(ctx, &disputedto.CreateDisputeInput{OrderID: "o1", Issue: "Bags short by 3kg"})
	require.NoError(t, err)
	assert.Equal(t, domain.AnomalyManualReview, d.AnomalyType)
	assert.Equal(t, domain.SeverityMedium, d.Severity)
	assert.Equal(t, domain.DisputePendingReview, d.Status)
	assert.Equal(t, "h1", d.HubID)

	review := func(action, comment string) (*domain.Dispute, error) {
		return uc.ReviewDispute(ctx, &disputedto.ReviewDisputeInput{DisputeID: d.ID, Action: action, ActorRole: "admin", Comment: comment})
	}

	got, err := review("start_review", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeUnderReview, got.Status)

	got, err = review("comment", "called the hub manager")
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeUnderReview, got.Status)

	got, err = review("resolve", "weights confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeResolved, got.Status)

	_, err = review("escalate", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err = review("reopen", "buyer disagrees")
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeUnderReview, got.Status)

	_, err = review("archive", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedAction)
	_, err = review("auto_escalate", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedAction)

	stored, err := uc.GetDisputeByID(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, stored.Events, 5)
	assert.Equal(t, domain.DisputeResolved, stored.Events[4].PreviousStatus)
	assert.Equal(t, domain.DisputeUnderReview, stored.Events[4].NextStatus)

	assert.Equal(t, domain.EventDisputeCreated, publisher.DisputeTypes()[0])
}

func TestReopenRejectedWhenAnotherDisputeIsOpen(t *testing.T) {
	order := inspectionOrder("o1", "h1", time.Hour)
	uc, _, _, _ := newUsecase(order)
	ctx := context.Background()
	outcome := domain.PayoutOutcome{Err: domain.NewPayoutError(domain.ErrProviderRejected, domain.CodeProviderRejected, "declined")}

	first, err := uc.EscalatePayoutFailure(ctx, order, outcome)
	require.NoError(t, err)
	_, err = uc.ReviewDispute(ctx, &disputedto.ReviewDisputeInput{DisputeID: first.ID, Action: "resolve"})
	require.NoError(t, err)

	second, err := uc.EscalatePayoutFailure(ctx, order, outcome)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = uc.ReviewDispute(ctx, &disputedto.ReviewDisputeInput{DisputeID: first.ID, Action: "reopen"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCreateDisputeValidation(t *testing.T) {
	uc, _, _, _ := newUsecase()
	ctx := context.Background()

	_, err := uc.CreateDispute(ctx, &disputedto.CreateDisputeInput{OrderID: "missing", Issue: "late"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.CreateDispute(ctx, &disputedto.CreateDisputeInput{HubID: "h1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateDispute(ctx, &disputedto.CreateDisputeInput{HubID: "h1", Issue: "cold room down", Severity: "critical"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d, err := uc.CreateDispute(ctx, &disputedto.CreateDisputeInput{HubID: "h1", Issue: "cold room down", Severity: "high"})
	require.NoError(t, err)
	assert.Nil(t, d.OrderID)
	assert.Equal(t, domain.SourceAdmin, d.Source)
}

func TestListDisputesPaginates(t *testing.T) {
	uc, _, _, _ := newUsecase()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := uc.CreateDispute(ctx, &disputedto.CreateDisputeInput{HubID: "h1", Issue: "issue", Severity: "low"})
		require.NoError(t, err)
	}
	_, err := uc.CreateDispute(ctx, &disputedto.CreateDisputeInput{HubID: "h1", Issue: "issue", Severity: "high"})
	require.NoError(t, err)

	out, err := uc.ListDisputes(ctx, &disputedto.ListDisputesInput{Severity: "low", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Disputes, 2)
	assert.Equal(t, int32(5), out.Pagination.TotalItems)
	assert.Equal(t, int32(3), out.Pagination.TotalPages)
	assert.Equal(t, int32(2), out.Pagination.CurrentPage)

	_, err = uc.ListDisputes(ctx, &disputedto.ListDisputesInput{Status: "closed"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
