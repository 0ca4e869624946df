package orderdto

import "github.com/shopspring/decimal"

type CreateOrderInput struct {
	BuyerID       string
	FarmerID      string
	BatchID       string
	HubID         string
	HubName       string
	Region        string
	Commodity     string
	TotalPrice    decimal.Decimal
	Currency      string
	PaymentMethod string
}

type UpdateTrackingInput struct {
	OrderID string
	Stage   string
}
