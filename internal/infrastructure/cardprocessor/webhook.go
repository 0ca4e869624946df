package cardprocessor

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// WebhookParser verifies and decodes Stripe webhook deliveries.
type WebhookParser struct {
	secret           string
	requireSignature bool
}

func NewWebhookParser(secret string, requireSignature bool) *WebhookParser {
	return &WebhookParser{secret: secret, requireSignature: requireSignature}
}

// Parse verifies the signature when a secret is configured. Without a secret
// it either refuses the event or, when signatures are explicitly optional,
// decodes the body unauthenticated.
func (p *WebhookParser) Parse(payload []byte, signature string) (*domain.ProviderEvent, error) {
	var event stripe.Event
	signed := false

	switch {
	case p.secret != "":
		var err error
		event, err = webhook.ConstructEventWithOptions(payload, signature, p.secret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSignatureInvalid, err)
		}
		signed = true
	case p.requireSignature:
		return nil, fmt.Errorf("%w: no webhook secret configured", domain.ErrSignatureInvalid)
	default:
		slog.Warn("accepting unsigned webhook, configure stripe.webhook_secret")
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	out := &domain.ProviderEvent{ID: event.ID, Type: string(event.Type), Signed: signed}
	if event.Data == nil {
		return out, nil
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired", "checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", domain.ErrInvalidInput, err)
		}
		out.SessionID = session.ID
		out.PaymentStatus = string(session.PaymentStatus)
		out.OrderID = session.ClientReferenceID
		if id, ok := session.Metadata["order_id"]; ok && out.OrderID == "" {
			out.OrderID = id
		}
		if session.PaymentIntent != nil {
			out.PaymentIntentID = session.PaymentIntent.ID
		}
	case "payment_intent.succeeded", "payment_intent.payment_failed", "payment_intent.canceled":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("%w: payment intent: %v", domain.ErrInvalidInput, err)
		}
		out.PaymentIntentID = intent.ID
		out.OrderID = intent.Metadata["order_id"]
		if intent.LatestCharge != nil {
			out.ChargeID = intent.LatestCharge.ID
		}
	}
	return out, nil
}
