package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ExecutionMode string

const (
	ModeLive ExecutionMode = "live"
	ModeStub ExecutionMode = "stub"
)

type PayoutStatus string

const (
	PayoutSucceeded      PayoutStatus = "succeeded"
	PayoutSubmitted      PayoutStatus = "submitted"
	PayoutFailed         PayoutStatus = "failed"
	PayoutManualRequired PayoutStatus = "manual_required"
)

const (
	ProviderCardProcessor = "stripe"
	ProviderMobileMoney   = "mobile_money"
	ProviderBank          = "bank"
)

const (
	RailCardTransfer = "card_transfer"
	RailMobileMoney  = "mobile_money_payout"
	RailBankTransfer = "bank_transfer"
)

// PayoutOutcome is the uniform result every rail returns. ProviderRequest is
// marshalled to JSON for the audit; ProviderResponse is stored as received.
type PayoutOutcome struct {
	OK                bool
	Skipped           bool
	Status            PayoutStatus
	Provider          string
	Method            PaymentMethod
	PaymentRail       string
	ExecutionMode     ExecutionMode
	ExternalReference string
	Amount            decimal.Decimal
	Currency          string
	Err               error
	ProcessedAt       time.Time
	ProviderRequest   any
	ProviderResponse  []byte
}

// PayoutAudit is one row per payout attempt. Rows are never updated or deleted.
type PayoutAudit struct {
	ID                string
	OrderID           string
	Provider          string
	Method            PaymentMethod
	PaymentRail       string
	ExecutionMode     ExecutionMode
	Status            PayoutStatus
	Amount            decimal.Decimal
	Currency          string
	ExternalReference string
	ErrorCode         string
	ErrorMessage      string
	ProviderRequest   []byte
	ProviderResponse  []byte
	ProcessedAt       time.Time
	CreatedAt         time.Time
}

type PayoutAuditRepository interface {
	Record(ctx context.Context, audit *PayoutAudit) error
	ListByOrderID(ctx context.Context, orderID string) ([]*PayoutAudit, error)
}
