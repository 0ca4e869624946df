package cardprocessor

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testSecret = "whsec_test_secret"

const checkoutCompleted = `{
  "id": "evt_1",
  "object": "event",
  "type": "checkout.session.completed",
  "data": {"object": {
    "id": "cs_test_1",
    "object": "checkout.session",
    "client_reference_id": "order-1",
    "payment_status": "paid",
    "payment_intent": "pi_1",
    "metadata": {"order_id": "order-1"}
  }}
}`

const intentSucceeded = `{
  "id": "evt_2",
  "object": "event",
  "type": "payment_intent.succeeded",
  "data": {"object": {
    "id": "pi_1",
    "object": "payment_intent",
    "latest_charge": "ch_1",
    "metadata": {"order_id": "order-1"}
  }}
}`

func sign(t *testing.T, payload string) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testSecret,
	})
	return signed.Header
}

func TestParseSignedCheckoutCompleted(t *testing.T) {
	parser := NewWebhookParser(testSecret, true)

	event, err := parser.Parse([]byte(checkoutCompleted), sign(t, checkoutCompleted))
	require.NoError(t, err)

	assert.True(t, event.Signed)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.Equal(t, "order-1", event.OrderID)
	assert.Equal(t, "cs_test_1", event.SessionID)
	assert.Equal(t, "paid", event.PaymentStatus)
	assert.Equal(t, "pi_1", event.PaymentIntentID)
}

func TestParsePaymentIntentCarriesCharge(t *testing.T) {
	parser := NewWebhookParser(testSecret, true)

	event, err := parser.Parse([]byte(intentSucceeded), sign(t, intentSucceeded))
	require.NoError(t, err)

	assert.Equal(t, "pi_1", event.PaymentIntentID)
	assert.Equal(t, "ch_1", event.ChargeID)
	assert.Equal(t, "order-1", event.OrderID)
}

func TestParseRejectsBadSignature(t *testing.T) {
	parser := NewWebhookParser(testSecret, true)

	_, err := parser.Parse([]byte(checkoutCompleted), "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, domain.ErrSignatureInvalid)
}

func TestParseUnsignedRequiresOptIn(t *testing.T) {
	_, err := NewWebhookParser("", true).Parse([]byte(checkoutCompleted), "")
	assert.ErrorIs(t, err, domain.ErrSignatureInvalid)

	event, err := NewWebhookParser("", false).Parse([]byte(checkoutCompleted), "")
	require.NoError(t, err)
	assert.False(t, event.Signed)
	assert.Equal(t, "order-1", event.OrderID)
}

func TestParseUnknownTypeKeepsEnvelope(t *testing.T) {
	payload := `{"id":"evt_3","object":"event","type":"customer.created","data":{"object":{"id":"cus_1"}}}`

	event, err := NewWebhookParser(testSecret, true).Parse([]byte(payload), sign(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "customer.created", event.Type)
	assert.Empty(t, event.OrderID)
}

func TestCreateTransferDisabledWithoutKey(t *testing.T) {
	p := NewStripeProcessor(Config{})
	assert.False(t, p.Enabled())

	_, err := p.CreateTransfer(context.Background(), domain.TransferRequest{})
	assert.ErrorIs(t, err, domain.ErrProviderDisabled)
}
