package response

import "time"

type DisputeEventResponse struct {
	ID             string    `json:"id"`
	Action         string    `json:"action"`
	ActorRole      string    `json:"actor_role"`
	Message        string    `json:"message,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NextStatus     string    `json:"next_status"`
	CreatedAt      time.Time `json:"created_at"`
}

type DisputeResponse struct {
	ID              string                 `json:"id"`
	OrderID         *string                `json:"order_id"`
	HubID           string                 `json:"hub_id"`
	HubName         string                 `json:"hub_name,omitempty"`
	Region          string                 `json:"region,omitempty"`
	Commodity       string                 `json:"commodity,omitempty"`
	Issue           string                 `json:"issue"`
	AnomalyType     string                 `json:"anomaly_type"`
	Severity        string                 `json:"severity"`
	Status          string                 `json:"status"`
	ConfidenceScore float64                `json:"confidence_score"`
	Source          string                 `json:"source"`
	LastActionAt    *time.Time             `json:"last_action_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Events          []DisputeEventResponse `json:"events,omitempty"`
}

type Pagination struct {
	CurrentPage  int32 `json:"current_page"`
	TotalPages   int32 `json:"total_pages"`
	TotalItems   int32 `json:"total_items"`
	ItemsPerPage int32 `json:"items_per_page"`
}

type ListDisputesResponse struct {
	Disputes   []DisputeResponse `json:"disputes"`
	Pagination Pagination        `json:"pagination"`
}

type SeedResponse struct {
	Created int64 `json:"created"`
	Skipped bool  `json:"skipped"`
}
