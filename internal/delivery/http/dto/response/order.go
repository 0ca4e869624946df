package response

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderResponse struct {
	ID            string `json:"id"`
	OrderNumber   string `json:"order_number"`
	BuyerID       string `json:"buyer_id"`
	FarmerID      string `json:"farmer_id"`
	BatchID       string `json:"batch_id"`
	HubID         string `json:"hub_id,omitempty"`
	HubName       string `json:"hub_name,omitempty"`
	Region        string `json:"region,omitempty"`
	Commodity     string `json:"commodity,omitempty"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`

	TotalPrice     decimal.Decimal `json:"total_price"`
	DepositPercent decimal.Decimal `json:"deposit_percent"`
	DepositAmount  decimal.Decimal `json:"deposit_amount"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	ServiceFee     decimal.Decimal `json:"service_fee"`
	InsuranceFee   decimal.Decimal `json:"insurance_fee"`
	AmountDueToday decimal.Decimal `json:"amount_due_today"`

	PaymentStatus string `json:"payment_status"`
	EscrowStatus  string `json:"escrow_status"`
	TrackingStage string `json:"tracking_stage"`

	PaymentConfirmedAt *time.Time `json:"payment_confirmed_at,omitempty"`
	EscrowFundedAt     *time.Time `json:"escrow_funded_at,omitempty"`
	EscrowReleasedAt   *time.Time `json:"escrow_released_at,omitempty"`
	TrackingUpdatedAt  *time.Time `json:"tracking_updated_at,omitempty"`

	TransferGroup string    `json:"transfer_group"`
	CreatedAt     time.Time `json:"created_at"`
}

type CheckoutResponse struct {
	OrderID        string          `json:"order_id"`
	SessionID      string          `json:"session_id"`
	RedirectURL    string          `json:"redirect_url"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	AmountDueToday decimal.Decimal `json:"amount_due_today"`
	Currency       string          `json:"currency"`
}

type PayoutAuditResponse struct {
	ID                string          `json:"id"`
	OrderID           string          `json:"order_id"`
	Provider          string          `json:"provider"`
	Method            string          `json:"method"`
	PaymentRail       string          `json:"payment_rail"`
	ExecutionMode     string          `json:"execution_mode"`
	Status            string          `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	ExternalReference string          `json:"external_reference,omitempty"`
	ErrorCode         string          `json:"error_code,omitempty"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	ProviderRequest   json.RawMessage `json:"provider_request,omitempty"`
	ProviderResponse  json.RawMessage `json:"provider_response,omitempty"`
	ProcessedAt       time.Time       `json:"processed_at"`
}

// BuyerPayoutResponse is the buyer-facing view of an audit row. It never
// carries provider payloads.
type BuyerPayoutResponse struct {
	Method        string          `json:"method"`
	ExecutionMode string          `json:"execution_mode"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ProcessedAt   time.Time       `json:"processed_at"`
}

type TimelineEntry struct {
	Label string `json:"label"`
	At    string `json:"at"`
}

type SummaryResponse struct {
	Order        OrderResponse         `json:"order"`
	Payouts      []BuyerPayoutResponse `json:"payouts"`
	OpenDisputes []DisputeResponse     `json:"open_disputes"`
	Timeline     []TimelineEntry       `json:"timeline"`
}
