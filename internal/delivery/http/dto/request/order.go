package request

import "github.com/shopspring/decimal"

type CreateOrderRequest struct {
	BuyerID       string          `json:"buyer_id"`
	FarmerID      string          `json:"farmer_id"`
	BatchID       string          `json:"batch_id"`
	HubID         string          `json:"hub_id"`
	HubName       string          `json:"hub_name"`
	Region        string          `json:"region"`
	Commodity     string          `json:"commodity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"payment_method"`
}

type UpdateTrackingRequest struct {
	Stage string `json:"stage"`
}
