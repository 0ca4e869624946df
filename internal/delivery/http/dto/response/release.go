package response

import "github.com/shopspring/decimal"

type ReleaseItemResponse struct {
	OrderID           string          `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	OK                bool            `json:"ok"`
	Skipped           bool            `json:"skipped"`
	Status            string          `json:"status,omitempty"`
	Method            string          `json:"method,omitempty"`
	ExecutionMode     string          `json:"execution_mode,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	ExternalReference string          `json:"external_reference,omitempty"`
	ErrorCode         string          `json:"error_code,omitempty"`
	Error             string          `json:"error,omitempty"`
	DisputeID         string          `json:"dispute_id,omitempty"`
}

type ReleaseBatchResponse struct {
	Released    int                   `json:"released"`
	Failed      int                   `json:"failed"`
	Skipped     int                   `json:"skipped"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Items       []ReleaseItemResponse `json:"items"`
}
