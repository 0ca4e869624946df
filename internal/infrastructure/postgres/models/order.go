package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	OrderNumber string `gorm:"uniqueIndex"`

	BuyerID  string `gorm:"type:uuid"`
	FarmerID string `gorm:"type:uuid"`
	BatchID  string

	HubID     string
	HubName   string
	Region    string
	Commodity string

	TotalPrice     decimal.Decimal `gorm:"type:numeric(18,2)"`
	DepositPercent decimal.Decimal `gorm:"type:numeric(5,4)"`
	DepositAmount  decimal.Decimal `gorm:"type:numeric(18,2)"`
	BalanceDue     decimal.Decimal `gorm:"type:numeric(18,2)"`
	ServiceFee     decimal.Decimal `gorm:"type:numeric(18,2)"`
	InsuranceFee   decimal.Decimal `gorm:"type:numeric(18,2)"`
	AmountDueToday decimal.Decimal `gorm:"type:numeric(18,2)"`
	Currency       string

	PaymentMethod string
	PaymentStatus string
	EscrowStatus  string
	TrackingStage string

	PaymentConfirmedAt *time.Time
	EscrowFundedAt     *time.Time
	EscrowReleasedAt   *time.Time
	TrackingUpdatedAt  *time.Time

	CheckoutSessionID *string
	PaymentIntentID   *string
	ChargeID          *string
	TransferID        *string
	TransferGroup     string

	CreatedAt time.Time `gorm:"index:idx_created_at"`
	UpdatedAt time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
