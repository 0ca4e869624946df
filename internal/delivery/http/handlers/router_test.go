package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/cardprocessor"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/locker"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/memstore"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/order"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/payout"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/release"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/webhook"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripewebhook "github.com/stripe/stripe-go/v76/webhook"
)

const (
	jwtSecret     = "test-jwt-secret"
	webhookSecret = "whsec_router_test"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	orders := memstore.NewOrders()
	audits := memstore.NewAudits()
	disputes := memstore.NewDisputes()
	publisher := &memstore.Publisher{}
	parties := memstore.NewParties(
		&domain.Party{ID: "buyer-1", FullName: "Kigali Fresh Ltd"},
		&domain.Party{ID: "buyer-2", FullName: "Huye Market"},
		&domain.Party{ID: "farmer-1", FullName: "Aline Uwase", PhoneNumber: "+250788000001"},
	)
	cards := cardprocessor.NewStripeProcessor(cardprocessor.Config{})
	rules := domain.QuoteRules{
		DepositPercent:    decimal.RequireFromString("0.6"),
		ServiceFeeRate:    decimal.RequireFromString("0.01"),
		ServiceFeeMinimum: decimal.NewFromInt(5000),
	}

	orderUC := order.NewDefaultOrderUsecase(orders, audits, disputes, parties, cards, publisher, nil, rules)
	payoutUC := payout.NewDefaultPayoutUsecase(parties, audits, map[domain.PaymentMethod]payout.Rail{
		domain.MethodMomo: payout.NewMobileMoneyRail(domain.MethodMomo, nil),
		domain.MethodBank: payout.NewBankRail(),
	}, nil)
	disputeUC := dispute.NewDefaultDisputeUsecase(disputes, orders, publisher, nil, nil)
	releaseUC := release.NewDefaultReleaseUsecase(orders, orderUC, payoutUC, disputeUC, locker.NewLocalLocker(), nil)
	webhookUC := webhook.NewDefaultWebhookUsecase(cardprocessor.NewWebhookParser(webhookSecret, true), orders, orderUC, nil)

	return NewRouter(RouterConfig{
		Orders:    NewOrderHandler(orderUC, releaseUC, payoutUC),
		Disputes:  NewDisputeHandler(disputeUC),
		Releases:  NewReleaseHandler(releaseUC, 10),
		Webhooks:  NewWebhookHandler(webhookUC),
		JWTSecret: jwtSecret,
	})
}

func token(t *testing.T, subject, role string) string {
	t.Helper()
	tok, err := middleware.GenerateToken(jwtSecret, subject, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, h http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func deliverCheckout(t *testing.T, h http.Handler, orderID string, signature func([]byte) string) *httptest.ResponseRecorder {
	t.Helper()
	payload := []byte(fmt.Sprintf(`{
  "id": "evt_checkout",
  "object": "event",
  "type": "checkout.session.completed",
  "data": {"object": {"id": "cs_1", "object": "checkout.session", "client_reference_id": %q, "payment_status": "paid", "payment_intent": "pi_1"}}
}`, orderID))
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature(payload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func validSignature(payload []byte) string {
	return stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{Payload: payload, Secret: webhookSecret}).Header
}

func TestEscrowLifecycleOverHTTP(t *testing.T) {
	h := newTestRouter(t)
	buyer := token(t, "buyer-1", middleware.RoleBuyer)
	admin := token(t, "ops-1", middleware.RoleAdmin)

	rec := do(t, h, http.MethodPost, "/api/v1/orders", buyer, map[string]string{
		"farmer_id":      "farmer-1",
		"batch_id":       "batch-1",
		"total_price":    "100000",
		"currency":       "RWF",
		"payment_method": "momo",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created response.OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "buyer-1", created.BuyerID)
	assert.True(t, created.AmountDueToday.Equal(decimal.NewFromInt(65000)))

	// card processor has no key configured
	rec = do(t, h, http.MethodPost, "/api/v1/orders/"+created.ID+"/checkout", buyer, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = deliverCheckout(t, h, created.ID, func([]byte) string { return "t=1,v1=deadbeef" })
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = deliverCheckout(t, h, created.ID, validSignature)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/admin/escrow/release-batch", buyer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/escrow/release-batch?limit=1", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report response.ReleaseBatchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, 1, report.Released)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "stub", report.Items[0].ExecutionMode)
	assert.Equal(t, "submitted", report.Items[0].Status)

	rec = do(t, h, http.MethodGet, "/api/v1/orders/"+created.ID+"/summary", buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary response.SummaryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, "released", summary.Order.EscrowStatus)
	require.Len(t, summary.Payouts, 1)

	other := token(t, "buyer-2", middleware.RoleBuyer)
	rec = do(t, h, http.MethodGet, "/api/v1/orders/"+created.ID+"/summary", other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/orders/"+created.ID+"/confirm-release", buyer, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/admin/orders/"+created.ID+"/payout-audits", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"execution_mode":"stub"`)
}

func TestDisputeAdminAPI(t *testing.T) {
	h := newTestRouter(t)
	admin := token(t, "ops-1", middleware.RoleAdmin)

	rec := do(t, h, http.MethodPost, "/api/v1/admin/disputes", admin, map[string]string{
		"hub_id": "hub-1", "issue": "Cold room offline", "severity": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created response.DisputeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "manual_review", created.AnomalyType)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/disputes/"+created.ID+"/actions", admin, map[string]string{"action": "resolve"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/disputes/"+created.ID+"/actions", admin, map[string]string{"action": "escalate"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/disputes/"+created.ID+"/actions", admin, map[string]string{"action": "archive"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/admin/disputes/"+created.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail response.DisputeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&detail))
	assert.Equal(t, "resolved", detail.Status)
	assert.Len(t, detail.Events, 2)

	rec = do(t, h, http.MethodGet, "/api/v1/admin/disputes?status=resolved", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list response.ListDisputesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Len(t, list.Disputes, 1)

	rec = do(t, h, http.MethodGet, "/api/v1/admin/disputes/missing", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/admin/disputes/seed", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"skipped":true`)
}

func TestHealthz(t *testing.T) {
	h := NewRouter(RouterConfig{
		Orders:   &OrderHandler{},
		Disputes: &DisputeHandler{},
		Releases: &ReleaseHandler{},
		Webhooks: &WebhookHandler{},
		Health:   func(context.Context) error { return fmt.Errorf("dial tcp: refused") },
	})
	rec := do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
