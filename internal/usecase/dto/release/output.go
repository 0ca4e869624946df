package releasedto

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/shopspring/decimal"
)

// BatchReport aggregates one release run.
type BatchReport struct {
	Released    int
	Failed      int
	Skipped     int
	TotalAmount decimal.Decimal
	Items       []ItemResult
}

// ItemResult is the structured per-order outcome shown to operators and
// buyers. It never carries raw provider payloads.
type ItemResult struct {
	OrderID           string
	OrderNumber       string
	OK                bool
	Skipped           bool
	Status            domain.PayoutStatus
	Method            domain.PaymentMethod
	ExecutionMode     domain.ExecutionMode
	Amount            decimal.Decimal
	ExternalReference string
	ErrorCode         string
	Error             string
	DisputeID         string
}

// Add folds one item into the totals. Only released items count towards
// TotalAmount.
func (r *BatchReport) Add(item ItemResult) {
	r.Items = append(r.Items, item)
	switch {
	case item.OK:
		r.Released++
		r.TotalAmount = r.TotalAmount.Add(item.Amount)
	case item.Skipped:
		r.Skipped++
	default:
		r.Failed++
	}
}
