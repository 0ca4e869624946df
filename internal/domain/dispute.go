package domain

import (
	"context"
	"fmt"
	"time"
)

type AnomalyType string

const (
	AnomalyQualityVariance       AnomalyType = "quality_variance"
	AnomalyInspectionSLA         AnomalyType = "inspection_sla"
	AnomalyPaymentReconciliation AnomalyType = "payment_reconciliation"
	AnomalyPayoutFailure         AnomalyType = "payout_failure"
	AnomalyManualReview          AnomalyType = "manual_review"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type DisputeStatus string

const (
	DisputePendingReview     DisputeStatus = "pending_review"
	DisputeUnderReview       DisputeStatus = "under_review"
	DisputePendingEscalation DisputeStatus = "pending_escalation"
	DisputeResolved          DisputeStatus = "resolved"
	DisputeDismissed         DisputeStatus = "dismissed"
)

const (
	SourceSystem = "system"
	SourceAdmin  = "admin"
	SourcePayout = "payout_engine"
)

func ParseAnomalyType(s string) (AnomalyType, error) {
	switch AnomalyType(s) {
	case AnomalyQualityVariance, AnomalyInspectionSLA, AnomalyPaymentReconciliation,
		AnomalyPayoutFailure, AnomalyManualReview:
		return AnomalyType(s), nil
	}
	return "", fmt.Errorf("%w: anomaly type %q", ErrInvalidInput, s)
}

func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return Severity(s), nil
	}
	return "", fmt.Errorf("%w: severity %q", ErrInvalidInput, s)
}

func ParseDisputeStatus(s string) (DisputeStatus, error) {
	switch DisputeStatus(s) {
	case DisputePendingReview, DisputeUnderReview, DisputePendingEscalation, DisputeResolved, DisputeDismissed:
		return DisputeStatus(s), nil
	}
	return "", fmt.Errorf("%w: dispute status %q", ErrInvalidInput, s)
}

// Open reports whether the dispute still needs attention.
func (s DisputeStatus) Open() bool {
	return s != DisputeResolved && s != DisputeDismissed
}

type Dispute struct {
	ID              string
	OrderID         *string
	HubID           string
	HubName         string
	Region          string
	Commodity       string
	Issue           string
	AnomalyType     AnomalyType
	Severity        Severity
	Status          DisputeStatus
	ConfidenceScore float64
	Source          string
	LastActionAt    *time.Time
	Events          []DisputeEvent
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisputeEvent is one immutable entry of a dispute timeline.
type DisputeEvent struct {
	ID             string
	DisputeID      string
	Action         ReviewAction
	ActorRole      string
	Message        string
	PreviousStatus DisputeStatus
	NextStatus     DisputeStatus
	CreatedAt      time.Time
}

type ReviewAction string

const (
	ActionCreate      ReviewAction = "create"
	ActionStartReview ReviewAction = "start_review"
	ActionEscalate    ReviewAction = "escalate"
	ActionResolve     ReviewAction = "resolve"
	ActionDismiss     ReviewAction = "dismiss"
	ActionReopen      ReviewAction = "reopen"
	ActionComment     ReviewAction = "comment"
	// ActionAutoEscalate is appended by the payout engine, never by an admin.
	ActionAutoEscalate ReviewAction = "auto_escalate"
)

// NextDisputeStatus applies an admin review action. Closed disputes only
// accept reopen and comment.
func NextDisputeStatus(current DisputeStatus, action ReviewAction) (DisputeStatus, error) {
	if action == ActionComment {
		return current, nil
	}
	if action == ActionReopen {
		return DisputeUnderReview, nil
	}

	var next DisputeStatus
	switch action {
	case ActionStartReview:
		next = DisputeUnderReview
	case ActionEscalate:
		next = DisputePendingEscalation
	case ActionResolve:
		next = DisputeResolved
	case ActionDismiss:
		next = DisputeDismissed
	default:
		return current, fmt.Errorf("%w: %q", ErrUnsupportedAction, action)
	}
	if !current.Open() {
		return current, fmt.Errorf("%w: %s on closed dispute (%s)", ErrInvalidTransition, action, current)
	}
	return next, nil
}

type DisputeFilter struct {
	Status      *DisputeStatus
	AnomalyType *AnomalyType
	Severity    *Severity
	OrderID     *string
	Page        int
	Limit       int
}

type DisputeRepository interface {
	Count(ctx context.Context) (int64, error)
	// InsertIgnoreConflicts bulk inserts and silently skips rows that collide
	// with an existing open dispute key. It returns the disputes it inserted.
	InsertIgnoreConflicts(ctx context.Context, disputes []*Dispute) ([]*Dispute, error)
	// Create inserts one dispute with its initial event. It returns
	// ErrDuplicateOpenDispute when an open dispute already holds the key.
	Create(ctx context.Context, dispute *Dispute, event *DisputeEvent) error
	FindOpenByOrder(ctx context.Context, orderID string, anomaly AnomalyType) (*Dispute, error)
	GetByID(ctx context.Context, disputeID string) (*Dispute, error)
	// Apply stores the new status and severity and appends the event in one transaction.
	Apply(ctx context.Context, dispute *Dispute, event *DisputeEvent) error
	List(ctx context.Context, filter DisputeFilter) ([]*Dispute, int64, error)
	ListOpenByOrder(ctx context.Context, orderID string) ([]*Dispute, error)
}
