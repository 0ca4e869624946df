package mobilemoney

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payoutRequest() domain.MobileMoneyPayoutRequest {
	return domain.MobileMoneyPayoutRequest{
		Provider:    "momo",
		Reference:   "mm_payout_momo_1700000000000_abc123",
		OrderID:     "order-1",
		PhoneNumber: "+250788000000",
		FullName:    "Jane Farmer",
		Amount:      decimal.NewFromInt(60000),
		Currency:    "RWF",
	}
}

func TestSubmitPayoutSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payouts", r.URL.Path)
		assert.Equal(t, "mm_payout_momo_1700000000000_abc123", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var body domain.MobileMoneyPayoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "+250788000000", body.PhoneNumber)

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"reference":"ext-42","status":"pending"}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider("momo", srv.URL+"/", "key", time.Second)
	require.True(t, p.Live())

	res, err := p.SubmitPayout(context.Background(), payoutRequest())
	require.NoError(t, err)
	assert.Equal(t, "ext-42", res.ExternalReference)
	assert.JSONEq(t, `{"reference":"ext-42","status":"pending"}`, string(res.Raw))
}

func TestSubmitPayoutRejectedKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"invalid_msisdn","message":"phone number not registered"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPProvider("airtel", srv.URL, "", time.Second).SubmitPayout(context.Background(), payoutRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderRejected)

	var payoutErr *domain.PayoutError
	require.True(t, errors.As(err, &payoutErr))
	assert.Equal(t, domain.CodeProviderRejected, payoutErr.Code)
	assert.Contains(t, payoutErr.Message, "phone number not registered")
	assert.Contains(t, string(payoutErr.Response), "invalid_msisdn")
}

func TestSubmitPayoutTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPProvider("momo", srv.URL, "", 50*time.Millisecond).SubmitPayout(context.Background(), payoutRequest())
	assert.ErrorIs(t, err, domain.ErrProviderTimeout)
}

func TestUnconfiguredProviderIsNotLive(t *testing.T) {
	p := NewHTTPProvider("momo", "", "", time.Second)
	assert.False(t, p.Live())

	_, err := p.SubmitPayout(context.Background(), payoutRequest())
	assert.ErrorIs(t, err, domain.ErrProviderDisabled)
}

func TestSubmitPayoutBodyStallIsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"reference":`))
		w.(http.Flusher).Flush()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPProvider("momo", srv.URL, "", 100*time.Millisecond).SubmitPayout(context.Background(), payoutRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderTimeout)

	var payoutErr *domain.PayoutError
	require.True(t, errors.As(err, &payoutErr))
	assert.Equal(t, domain.CodeProviderTimeout, payoutErr.Code)
}

func TestSubmitPayoutTruncatedBodyIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"reference":"ext`))
	}))
	defer srv.Close()

	_, err := NewHTTPProvider("momo", srv.URL, "", time.Second).SubmitPayout(context.Background(), payoutRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderRejected)
	assert.False(t, domain.IsConfigurationError(err))
}
