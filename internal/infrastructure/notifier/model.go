package notifier

import "time"

type AlertPayload struct {
	DisputeID   string    `json:"dispute_id"`
	OrderID     string    `json:"order_id,omitempty"`
	HubName     string    `json:"hub_name,omitempty"`
	AnomalyType string    `json:"anomaly_type"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	RaisedAt    time.Time `json:"raised_at"`
}
