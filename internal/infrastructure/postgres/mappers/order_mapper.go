package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:          model.ID,
		OrderNumber: model.OrderNumber,
		BuyerID:     model.BuyerID,
		FarmerID:    model.FarmerID,
		BatchID:     model.BatchID,
		HubID:       model.HubID,
		HubName:     model.HubName,
		Region:      model.Region,
		Commodity:   model.Commodity,
		Quote: domain.Quote{
			TotalPrice:     model.TotalPrice,
			DepositPercent: model.DepositPercent,
			DepositAmount:  model.DepositAmount,
			BalanceDue:     model.BalanceDue,
			ServiceFee:     model.ServiceFee,
			InsuranceFee:   model.InsuranceFee,
			AmountDueToday: model.AmountDueToday,
		},
		Currency:           model.Currency,
		PaymentMethod:      domain.PaymentMethod(model.PaymentMethod),
		PaymentStatus:      domain.PaymentStatus(model.PaymentStatus),
		EscrowStatus:       domain.EscrowStatus(model.EscrowStatus),
		TrackingStage:      domain.TrackingStage(model.TrackingStage),
		PaymentConfirmedAt: model.PaymentConfirmedAt,
		EscrowFundedAt:     model.EscrowFundedAt,
		EscrowReleasedAt:   model.EscrowReleasedAt,
		TrackingUpdatedAt:  model.TrackingUpdatedAt,
		CheckoutSessionID:  deref(model.CheckoutSessionID),
		PaymentIntentID:    deref(model.PaymentIntentID),
		ChargeID:           deref(model.ChargeID),
		TransferID:         deref(model.TransferID),
		TransferGroup:      model.TransferGroup,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		BuyerID:            order.BuyerID,
		FarmerID:           order.FarmerID,
		BatchID:            order.BatchID,
		HubID:              order.HubID,
		HubName:            order.HubName,
		Region:             order.Region,
		Commodity:          order.Commodity,
		TotalPrice:         order.TotalPrice,
		DepositPercent:     order.DepositPercent,
		DepositAmount:      order.DepositAmount,
		BalanceDue:         order.BalanceDue,
		ServiceFee:         order.ServiceFee,
		InsuranceFee:       order.InsuranceFee,
		AmountDueToday:     order.AmountDueToday,
		Currency:           order.Currency,
		PaymentMethod:      string(order.PaymentMethod),
		PaymentStatus:      string(order.PaymentStatus),
		EscrowStatus:       string(order.EscrowStatus),
		TrackingStage:      string(order.TrackingStage),
		PaymentConfirmedAt: order.PaymentConfirmedAt,
		EscrowFundedAt:     order.EscrowFundedAt,
		EscrowReleasedAt:   order.EscrowReleasedAt,
		TrackingUpdatedAt:  order.TrackingUpdatedAt,
		CheckoutSessionID:  nullable(order.CheckoutSessionID),
		PaymentIntentID:    nullable(order.PaymentIntentID),
		ChargeID:           nullable(order.ChargeID),
		TransferID:         nullable(order.TransferID),
		TransferGroup:      order.TransferGroup,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

// ToOrderColumns turns the non-nil fields of changes into a column map for Updates.
func ToOrderColumns(changes domain.OrderChanges) map[string]interface{} {
	cols := make(map[string]interface{})
	if changes.PaymentStatus != nil {
		cols["payment_status"] = string(*changes.PaymentStatus)
	}
	if changes.EscrowStatus != nil {
		cols["escrow_status"] = string(*changes.EscrowStatus)
	}
	if changes.TrackingStage != nil {
		cols["tracking_stage"] = string(*changes.TrackingStage)
	}
	if changes.PaymentConfirmedAt != nil {
		cols["payment_confirmed_at"] = *changes.PaymentConfirmedAt
	}
	if changes.EscrowFundedAt != nil {
		cols["escrow_funded_at"] = *changes.EscrowFundedAt
	}
	if changes.EscrowReleasedAt != nil {
		cols["escrow_released_at"] = *changes.EscrowReleasedAt
	}
	if changes.TrackingUpdatedAt != nil {
		cols["tracking_updated_at"] = *changes.TrackingUpdatedAt
	}
	if changes.CheckoutSessionID != nil {
		cols["checkout_session_id"] = *changes.CheckoutSessionID
	}
	if changes.PaymentIntentID != nil {
		cols["payment_intent_id"] = *changes.PaymentIntentID
	}
	if changes.ChargeID != nil {
		cols["charge_id"] = *changes.ChargeID
	}
	if changes.TransferID != nil {
		cols["transfer_id"] = *changes.TransferID
	}
	return cols
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
