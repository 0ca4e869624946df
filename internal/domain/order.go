package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentFailed      PaymentStatus = "failed"
)

type EscrowStatus string

const (
	EscrowAwaitingPayment EscrowStatus = "awaiting_payment"
	EscrowFunded          EscrowStatus = "funded"
	EscrowReleased        EscrowStatus = "released"
	EscrowReleaseFailed   EscrowStatus = "release_failed"
)

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "card"
	MethodMomo   PaymentMethod = "momo"
	MethodAirtel PaymentMethod = "airtel"
	MethodBank   PaymentMethod = "bank"
)

type TrackingStage string

const (
	StageOrderPlaced   TrackingStage = "order_placed"
	StageHubInspection TrackingStage = "hub_inspection"
	StageInTransit     TrackingStage = "in_transit"
	StageDelivered     TrackingStage = "delivered"
	StageCancelled     TrackingStage = "cancelled"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentDepositPaid, PaymentFailed:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("%w: payment status %q", ErrInvalidInput, s)
}

func ParseEscrowStatus(s string) (EscrowStatus, error) {
	switch EscrowStatus(s) {
	case EscrowAwaitingPayment, EscrowFunded, EscrowReleased, EscrowReleaseFailed:
		return EscrowStatus(s), nil
	}
	return "", fmt.Errorf("%w: escrow status %q", ErrInvalidInput, s)
}

// ParsePaymentMethod rejects anything outside the four supported rails.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCard, MethodMomo, MethodAirtel, MethodBank:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: payment method %q", ErrUnsupportedPayoutMethod, s)
}

func ParseTrackingStage(s string) (TrackingStage, error) {
	switch TrackingStage(s) {
	case StageOrderPlaced, StageHubInspection, StageInTransit, StageDelivered, StageCancelled:
		return TrackingStage(s), nil
	}
	return "", fmt.Errorf("%w: tracking stage %q", ErrInvalidInput, s)
}

type Order struct {
	ID          string
	OrderNumber string

	BuyerID  string
	FarmerID string
	BatchID  string

	HubID     string
	HubName   string
	Region    string
	Commodity string

	Quote
	Currency      string
	PaymentMethod PaymentMethod

	PaymentStatus PaymentStatus
	EscrowStatus  EscrowStatus
	TrackingStage TrackingStage

	PaymentConfirmedAt *time.Time
	EscrowFundedAt     *time.Time
	EscrowReleasedAt   *time.Time
	TrackingUpdatedAt  *time.Time

	CheckoutSessionID string
	PaymentIntentID   string
	ChargeID          string
	TransferID        string
	TransferGroup     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayoutEligible reports whether money may leave escrow for this order.
// release_failed stays eligible so an operator or buyer can retry explicitly.
func (o *Order) PayoutEligible() bool {
	if o.PaymentStatus != PaymentDepositPaid {
		return false
	}
	return o.EscrowStatus == EscrowFunded || o.EscrowStatus == EscrowReleaseFailed
}

// PayoutAmount is the escrowed deposit owed to the farmer.
func (o *Order) PayoutAmount() decimal.Decimal {
	return o.DepositAmount
}

// TrackingAge measures how long the order has sat in its current stage.
func (o *Order) TrackingAge(now time.Time) time.Duration {
	since := o.CreatedAt
	if o.TrackingUpdatedAt != nil {
		since = *o.TrackingUpdatedAt
	}
	return now.Sub(since)
}

// OrderChanges is the set of columns a guarded order update may write.
// Nil fields are left untouched.
type OrderChanges struct {
	PaymentStatus      *PaymentStatus
	EscrowStatus       *EscrowStatus
	TrackingStage      *TrackingStage
	PaymentConfirmedAt *time.Time
	EscrowFundedAt     *time.Time
	EscrowReleasedAt   *time.Time
	TrackingUpdatedAt  *time.Time
	CheckoutSessionID  *string
	PaymentIntentID    *string
	ChargeID           *string
	TransferID         *string
}

// OrderGuard is the current-state predicate a guarded update must satisfy.
// Empty slices accept any value.
type OrderGuard struct {
	PaymentStatuses []PaymentStatus
	EscrowStatuses  []EscrowStatus
}

// PaymentCorrelation carries provider identifiers learnt along the way.
// Empty fields are not written.
type PaymentCorrelation struct {
	CheckoutSessionID string
	PaymentIntentID   string
	ChargeID          string
	TransferID        string
}

func (c PaymentCorrelation) apply(changes *OrderChanges) {
	if c.CheckoutSessionID != "" {
		changes.CheckoutSessionID = &c.CheckoutSessionID
	}
	if c.PaymentIntentID != "" {
		changes.PaymentIntentID = &c.PaymentIntentID
	}
	if c.ChargeID != "" {
		changes.ChargeID = &c.ChargeID
	}
	if c.TransferID != "" {
		changes.TransferID = &c.TransferID
	}
}

// Changes returns an OrderChanges that only writes the correlation ids.
func (c PaymentCorrelation) Changes() OrderChanges {
	var changes OrderChanges
	c.apply(&changes)
	return changes
}

// WithCorrelation adds the non-empty ids of c to the changes.
func (changes OrderChanges) WithCorrelation(c PaymentCorrelation) OrderChanges {
	c.apply(&changes)
	return changes
}

func (changes OrderChanges) Empty() bool {
	return changes == OrderChanges{}
}
