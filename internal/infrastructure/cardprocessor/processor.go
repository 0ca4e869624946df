package cardprocessor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Config struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
	// BackendURL overrides the API base, used against stripe-mock in tests.
	BackendURL string
}

// StripeProcessor implements domain.CardProcessor on top of Stripe Checkout
// and Connect transfers.
type StripeProcessor struct {
	api *client.API
	cfg Config
}

// NewStripeProcessor returns a disabled processor when no secret key is set.
func NewStripeProcessor(cfg Config) *StripeProcessor {
	if cfg.SecretKey == "" {
		return &StripeProcessor{cfg: cfg}
	}
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.BackendURL != "" {
		backendCfg.URL = stripe.String(cfg.BackendURL)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	}
	return &StripeProcessor{api: client.New(cfg.SecretKey, backends), cfg: cfg}
}

func (p *StripeProcessor) Enabled() bool {
	return p.api != nil
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, order *domain.Order, buyer *domain.Party) (*domain.CheckoutSession, error) {
	if !p.Enabled() {
		return nil, domain.NewPayoutError(domain.ErrProviderDisabled, domain.CodeProviderDisabled, "card processor is not configured")
	}

	currency := strings.ToLower(order.Currency)
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(order.ID),
		SuccessURL:        stripe.String(p.cfg.SuccessURL),
		CancelURL:         stripe.String(p.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(domain.ToMinorUnits(order.AmountDueToday, order.Currency)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Deposit for order %s", order.OrderNumber)),
					},
				},
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			TransferGroup: stripe.String(order.TransferGroup),
			Metadata:      map[string]string{"order_id": order.ID, "order_number": order.OrderNumber},
		},
		Metadata: map[string]string{"order_id": order.ID, "order_number": order.OrderNumber},
	}
	if buyer != nil && buyer.Email != "" {
		params.CustomerEmail = stripe.String(buyer.Email)
	}
	params.Context = ctx
	params.SetIdempotencyKey("checkout_" + order.ID)

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, classify(err)
	}
	return &domain.CheckoutSession{
		SessionID:     session.ID,
		RedirectURL:   session.URL,
		ExpiresAt:     time.Unix(session.ExpiresAt, 0).UTC(),
		TransferGroup: order.TransferGroup,
	}, nil
}

func (p *StripeProcessor) CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.Transfer, error) {
	if !p.Enabled() {
		return nil, domain.NewPayoutError(domain.ErrProviderDisabled, domain.CodeProviderDisabled, "card processor is not configured")
	}

	params := &stripe.TransferParams{
		Amount:        stripe.Int64(domain.ToMinorUnits(req.Amount, req.Currency)),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		Destination:   stripe.String(req.DestinationAccount),
		TransferGroup: stripe.String(req.TransferGroup),
		Metadata:      map[string]string{"order_id": req.OrderID},
	}
	if req.SourceCharge != "" {
		params.SourceTransaction = stripe.String(req.SourceCharge)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	transfer, err := p.api.Transfers.New(params)
	if err != nil {
		return nil, classify(err)
	}

	var raw []byte
	if transfer.LastResponse != nil {
		raw = transfer.LastResponse.RawJSON
	}
	return &domain.Transfer{ID: transfer.ID, Raw: raw}, nil
}

// classify maps stripe and transport errors onto the payout taxonomy.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.PayoutError{
			Kind:    domain.ErrProviderTimeout,
			Code:    domain.CodeProviderTimeout,
			Message: "card processor did not answer in time",
		}
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &domain.PayoutError{
			Kind:     domain.ErrProviderRejected,
			Code:     domain.CodeProviderRejected,
			Message:  fmt.Sprintf("stripe %s: %s", stripeErr.Code, stripeErr.Msg),
			Response: []byte(stripeErr.Error()),
		}
	}

	return &domain.PayoutError{
		Kind:    domain.ErrProviderRejected,
		Code:    domain.CodeProviderRejected,
		Message: err.Error(),
	}
}
