package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutSession struct {
	SessionID     string
	RedirectURL   string
	ExpiresAt     time.Time
	TransferGroup string
}

type TransferRequest struct {
	Amount             decimal.Decimal
	Currency           string
	DestinationAccount string
	SourceCharge       string
	TransferGroup      string
	OrderID            string
	IdempotencyKey     string
}

type Transfer struct {
	ID  string
	Raw []byte
}

// CardProcessor is the external card processor. Enabled is false when no
// credentials are configured.
type CardProcessor interface {
	Enabled() bool
	CreateCheckoutSession(ctx context.Context, order *Order, buyer *Party) (*CheckoutSession, error)
	CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error)
}

type MobileMoneyPayoutRequest struct {
	Provider    string          `json:"provider"`
	Reference   string          `json:"reference"`
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	PhoneNumber string          `json:"phone_number"`
	FullName    string          `json:"full_name"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Narration   string          `json:"narration"`
}

type MobileMoneyPayoutResult struct {
	ExternalReference string
	Raw               []byte
}

// MobileMoneyProvider submits payouts to one mobile-money network. Live is
// false when no endpoint is configured and the caller must use the stub path.
type MobileMoneyProvider interface {
	Name() string
	Live() bool
	SubmitPayout(ctx context.Context, req MobileMoneyPayoutRequest) (*MobileMoneyPayoutResult, error)
}

// ProviderEvent is a verified webhook event reduced to what the ledger needs.
type ProviderEvent struct {
	ID              string
	Type            string
	OrderID         string
	SessionID       string
	PaymentIntentID string
	ChargeID        string
	PaymentStatus   string
	Signed          bool
}

type WebhookParser interface {
	Parse(payload []byte, signature string) (*ProviderEvent, error)
}
