package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PayoutAuditModel struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	OrderID           string `gorm:"type:uuid;index:idx_payout_audits_order"`
	Provider          string
	Method            string
	PaymentRail       string
	ExecutionMode     string
	Status            string
	Amount            decimal.Decimal `gorm:"type:numeric(18,2)"`
	Currency          string
	ExternalReference string
	ErrorCode         string
	ErrorMessage      string         `gorm:"type:text"`
	ProviderRequest   datatypes.JSON `gorm:"type:jsonb"`
	ProviderResponse  datatypes.JSON `gorm:"type:jsonb"`
	ProcessedAt       time.Time      `gorm:"index:idx_payout_audits_order"`
	CreatedAt         time.Time
}

func (PayoutAuditModel) TableName() string {
	return "payout_audits"
}
