package request

type CreateDisputeRequest struct {
	OrderID     string `json:"order_id"`
	HubID       string `json:"hub_id"`
	HubName     string `json:"hub_name"`
	Region      string `json:"region"`
	Commodity   string `json:"commodity"`
	Issue       string `json:"issue"`
	AnomalyType string `json:"anomaly_type"`
	Severity    string `json:"severity"`
}

type ReviewDisputeRequest struct {
	Action  string `json:"action"`
	Comment string `json:"comment"`
}
