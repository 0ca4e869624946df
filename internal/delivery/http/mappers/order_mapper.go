package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/order"
)

func ToOrderResponse(order *domain.Order) response.OrderResponse {
	return response.OrderResponse{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		BuyerID:            order.BuyerID,
		FarmerID:           order.FarmerID,
		BatchID:            order.BatchID,
		HubID:              order.HubID,
		HubName:            order.HubName,
		Region:             order.Region,
		Commodity:          order.Commodity,
		Currency:           order.Currency,
		PaymentMethod:      string(order.PaymentMethod),
		TotalPrice:         order.TotalPrice,
		DepositPercent:     order.DepositPercent,
		DepositAmount:      order.DepositAmount,
		BalanceDue:         order.BalanceDue,
		ServiceFee:         order.ServiceFee,
		InsuranceFee:       order.InsuranceFee,
		AmountDueToday:     order.AmountDueToday,
		PaymentStatus:      string(order.PaymentStatus),
		EscrowStatus:       string(order.EscrowStatus),
		TrackingStage:      string(order.TrackingStage),
		PaymentConfirmedAt: order.PaymentConfirmedAt,
		EscrowFundedAt:     order.EscrowFundedAt,
		EscrowReleasedAt:   order.EscrowReleasedAt,
		TrackingUpdatedAt:  order.TrackingUpdatedAt,
		TransferGroup:      order.TransferGroup,
		CreatedAt:          order.CreatedAt,
	}
}

func ToCheckoutResponse(out *orderdto.CheckoutOutput) response.CheckoutResponse {
	resp := response.CheckoutResponse{
		OrderID:        out.Order.ID,
		SessionID:      out.Session.SessionID,
		RedirectURL:    out.Session.RedirectURL,
		AmountDueToday: out.Order.AmountDueToday,
		Currency:       out.Order.Currency,
	}
	if !out.Session.ExpiresAt.IsZero() {
		expires := out.Session.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}

func ToPayoutAuditResponse(audit *domain.PayoutAudit) response.PayoutAuditResponse {
	return response.PayoutAuditResponse{
		ID:                audit.ID,
		OrderID:           audit.OrderID,
		Provider:          audit.Provider,
		Method:            string(audit.Method),
		PaymentRail:       audit.PaymentRail,
		ExecutionMode:     string(audit.ExecutionMode),
		Status:            string(audit.Status),
		Amount:            audit.Amount,
		Currency:          audit.Currency,
		ExternalReference: audit.ExternalReference,
		ErrorCode:         audit.ErrorCode,
		ErrorMessage:      audit.ErrorMessage,
		ProviderRequest:   audit.ProviderRequest,
		ProviderResponse:  audit.ProviderResponse,
		ProcessedAt:       audit.ProcessedAt,
	}
}

func ToSummaryResponse(out *orderdto.SummaryOutput) response.SummaryResponse {
	resp := response.SummaryResponse{
		Order:        ToOrderResponse(out.Order),
		Payouts:      make([]response.BuyerPayoutResponse, 0, len(out.PayoutAudits)),
		OpenDisputes: make([]response.DisputeResponse, 0, len(out.OpenDisputes)),
		Timeline:     make([]response.TimelineEntry, 0, len(out.Timeline)),
	}
	for _, audit := range out.PayoutAudits {
		resp.Payouts = append(resp.Payouts, response.BuyerPayoutResponse{
			Method:        string(audit.Method),
			ExecutionMode: string(audit.ExecutionMode),
			Status:        string(audit.Status),
			Amount:        audit.Amount,
			Currency:      audit.Currency,
			ProcessedAt:   audit.ProcessedAt,
		})
	}
	for _, d := range out.OpenDisputes {
		resp.OpenDisputes = append(resp.OpenDisputes, ToDisputeResponse(d, false))
	}
	for _, entry := range out.Timeline {
		resp.Timeline = append(resp.Timeline, response.TimelineEntry{Label: entry.Label, At: entry.At})
	}
	return resp
}
