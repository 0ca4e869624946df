package domain

import "context"

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(topic string, msgs ...Message) error
}

// EventPublisher emits escrow and dispute lifecycle events. Implementations
// must not block money movement on broker failures.
type EventPublisher interface {
	PublishEscrowEvent(ctx context.Context, event EscrowLifecycleEvent)
	PublishDisputeEvent(ctx context.Context, event DisputeLifecycleEvent)
}

type EscrowLifecycleEvent struct {
	Type          string `json:"type"`
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	FarmerID      string `json:"farmer_id"`
	BuyerID       string `json:"buyer_id"`
	PaymentMethod string `json:"payment_method"`
	EscrowStatus  string `json:"escrow_status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference,omitempty"`
	ErrorCode     string `json:"error_code,omitempty"`
}

type DisputeLifecycleEvent struct {
	Type        string `json:"type"`
	DisputeID   string `json:"dispute_id"`
	OrderID     string `json:"order_id,omitempty"`
	HubID       string `json:"hub_id,omitempty"`
	AnomalyType string `json:"anomaly_type"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
}

// AdminAlerter pushes escalations to whoever is on call.
type AdminAlerter interface {
	DisputeEscalated(dispute *Dispute, message string)
}

// ReleaseLocker serialises release attempts for one order across processes.
type ReleaseLocker interface {
	Acquire(ctx context.Context, orderID string) (unlock func(), err error)
}

const (
	EventEscrowFunded        = "escrow.funded"
	EventEscrowReleased      = "escrow.released"
	EventEscrowReleaseFailed = "escrow.release_failed"
	EventDisputeCreated      = "dispute.created"
	EventDisputeEscalated    = "dispute.escalated"
	EventDisputeReviewed     = "dispute.reviewed"
)
