package disputedto

type CreateDisputeInput struct {
	OrderID     string
	HubID       string
	HubName     string
	Region      string
	Commodity   string
	Issue       string
	AnomalyType string
	Severity    string
	ActorRole   string
}

type ReviewDisputeInput struct {
	DisputeID string
	Action    string
	ActorRole string
	Comment   string
}

type ListDisputesInput struct {
	Status      string
	AnomalyType string
	Severity    string
	OrderID     string
	Page        int
	Limit       int
}
