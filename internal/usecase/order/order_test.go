package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/order"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type fakeCards struct {
	enabled bool
}

func (c *fakeCards) Enabled() bool { return c.enabled }

func (c *fakeCards) CreateCheckoutSession(_ context.Context, order *domain.Order, _ *domain.Party) (*domain.CheckoutSession, error) {
	return &domain.CheckoutSession{SessionID: "cs_" + order.ID, RedirectURL: "https://checkout.example/pay", TransferGroup: order.TransferGroup}, nil
}

func (c *fakeCards) CreateTransfer(context.Context, domain.TransferRequest) (*domain.Transfer, error) {
	return nil, domain.ErrProviderDisabled
}

type fixture struct {
	uc        *DefaultOrderUsecase
	orders    *memstore.Orders
	publisher *memstore.Publisher
	cards     *fakeCards
}

func newFixture() *fixture {
	f := &fixture{
		orders:    memstore.NewOrders(),
		publisher: &memstore.Publisher{},
		cards:     &fakeCards{enabled: true},
	}
	parties := memstore.NewParties(
		&domain.Party{ID: "buyer-1", FullName: "Kigali Fresh Ltd", Email: "ops@kigalifresh.rw"},
		&domain.Party{ID: "farmer-1", FullName: "Aline Uwase", PhoneNumber: "+250788000001"},
	)
	rules := domain.QuoteRules{
		DepositPercent:    decimal.RequireFromString("0.6"),
		ServiceFeeRate:    decimal.RequireFromString("0.01"),
		ServiceFeeMinimum: decimal.NewFromInt(5000),
	}
	f.uc = NewDefaultOrderUsecase(f.orders, memstore.NewAudits(), memstore.NewDisputes(), parties, f.cards, f.publisher, nil, rules)
	f.uc.Now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) create(t *testing.T) *domain.Order {
	t.Helper()
	order, err := f.uc.CreateOrder(context.Background(), &orderdto.CreateOrderInput{
		BuyerID:       "buyer-1",
		FarmerID:      "farmer-1",
		BatchID:       "batch-7",
		HubID:         "hub-musanze",
		Commodity:     "potatoes",
		TotalPrice:    decimal.NewFromInt(100000),
		Currency:      "rwf",
		PaymentMethod: "momo",
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f := newFixture()
	order := f.create(t)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "AGR-"))
	assert.Len(t, order.OrderNumber, 14)
	assert.Equal(t, "order_"+order.OrderNumber, order.TransferGroup)
	assert.Equal(t, "RWF", order.Currency)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.Equal(t, domain.EscrowAwaitingPayment, order.EscrowStatus)
	assert.Equal(t, domain.StageOrderPlaced, order.TrackingStage)
	assert.True(t, order.AmountDueToday.Equal(decimal.NewFromInt(65000)))

	stored, err := f.orders.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	base := orderdto.CreateOrderInput{
		BuyerID: "buyer-1", FarmerID: "farmer-1", BatchID: "b", TotalPrice: decimal.NewFromInt(10), Currency: "RWF", PaymentMethod: "card",
	}

	in := base
	in.PaymentMethod = "paypal"
	_, err := f.uc.CreateOrder(ctx, &in)
	assert.ErrorIs(t, err, domain.ErrUnsupportedPayoutMethod)

	in = base
	in.FarmerID = "ghost"
	_, err = f.uc.CreateOrder(ctx, &in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in = base
	in.TotalPrice = decimal.NewFromInt(-1)
	_, err = f.uc.CreateOrder(ctx, &in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type alwaysTaken struct{ checks int }

func (a *alwaysTaken) ExistsOrderNumber(context.Context, string) (bool, error) {
	a.checks++
	return true, nil
}

func TestOrderNumberFallback(t *testing.T) {
	repo := &alwaysTaken{}
	gen := NewOrderNumberGenerator(repo)
	gen.now = func() time.Time { return fixedNow }

	type result struct {
		number string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		number, err := gen.Next(context.Background())
		done <- result{number, err}
	}()

	var number string
	select {
	case r := <-done:
		require.NoError(t, r.err)
		number = r.number
	case <-time.After(3 * time.Second):
		t.Fatal("fallback order number was not generated")
	}
	assert.Equal(t, orderNumberAttempts, repo.checks)

	prefix := "AGR-1773135000000-"
	require.True(t, strings.HasPrefix(number, prefix), number)
	assert.Len(t, strings.TrimPrefix(number, prefix), 4)
}

func TestConfirmDepositFundsOnce(t *testing.T) {
	f := newFixture()
	order := f.create(t)
	ctx := context.Background()

	funded, err := f.uc.ConfirmDeposit(ctx, order.ID, domain.PaymentCorrelation{PaymentIntentID: "pi_1"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentDepositPaid, funded.PaymentStatus)
	assert.Equal(t, domain.EscrowFunded, funded.EscrowStatus)
	assert.Equal(t, fixedNow, *funded.EscrowFundedAt)

	_, err = f.uc.ConfirmDeposit(ctx, order.ID, domain.PaymentCorrelation{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, []string{domain.EventEscrowFunded}, f.publisher.EscrowTypes())
}

func TestGuardedUpdateLosesRace(t *testing.T) {
	f := newFixture()
	order := f.create(t)
	ctx := context.Background()
	_, err := f.uc.ConfirmDeposit(ctx, order.ID, domain.PaymentCorrelation{})
	require.NoError(t, err)

	// another writer releases the order between our read and our write
	f.orders.UpdateHook = func(id string) {
		f.orders.UpdateHook = nil
		released := domain.EscrowReleased
		require.NoError(t, f.orders.UpdateGuarded(ctx, id, domain.OrderGuard{}, domain.OrderChanges{EscrowStatus: &released}))
	}
	_, err = f.uc.TransitionEscrow(ctx, order.ID, domain.EscrowEventReleaseFailed, domain.PaymentCorrelation{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.orders.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EscrowReleased, stored.EscrowStatus)
}

func TestStartCheckout(t *testing.T) {
	f := newFixture()
	order := f.create(t)
	ctx := context.Background()

	out, err := f.uc.StartCheckout(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "cs_"+order.ID, out.Session.SessionID)

	stored, err := f.orders.FindByCheckoutSessionID(ctx, "cs_"+order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)

	f.cards.enabled = false
	_, err = f.uc.StartCheckout(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrProviderDisabled)
}

func TestTrackingAndSummary(t *testing.T) {
	f := newFixture()
	order := f.create(t)
	ctx := context.Background()
	_, err := f.uc.ConfirmDeposit(ctx, order.ID, domain.PaymentCorrelation{})
	require.NoError(t, err)

	_, err = f.uc.UpdateTracking(ctx, &orderdto.UpdateTrackingInput{OrderID: order.ID, Stage: "hub_inspection"})
	require.NoError(t, err)

	summary, err := f.uc.Summary(ctx, order.ID)
	require.NoError(t, err)
	labels := make([]string, 0, len(summary.Timeline))
	for _, e := range summary.Timeline {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"order_placed", "payment_confirmed", "escrow_funded", "hub_inspection"}, labels)

	_, err = f.uc.UpdateTracking(ctx, &orderdto.UpdateTrackingInput{OrderID: order.ID, Stage: "cancelled"})
	require.NoError(t, err)
	_, err = f.uc.UpdateTracking(ctx, &orderdto.UpdateTrackingInput{OrderID: order.ID, Stage: "in_transit"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.uc.UpdateTracking(ctx, &orderdto.UpdateTrackingInput{OrderID: order.ID, Stage: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
