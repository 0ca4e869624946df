package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToDomainPayoutAudit(model *models.PayoutAuditModel) *domain.PayoutAudit {
	return &domain.PayoutAudit{
		ID:                model.ID,
		OrderID:           model.OrderID,
		Provider:          model.Provider,
		Method:            domain.PaymentMethod(model.Method),
		PaymentRail:       model.PaymentRail,
		ExecutionMode:     domain.ExecutionMode(model.ExecutionMode),
		Status:            domain.PayoutStatus(model.Status),
		Amount:            model.Amount,
		Currency:          model.Currency,
		ExternalReference: model.ExternalReference,
		ErrorCode:         model.ErrorCode,
		ErrorMessage:      model.ErrorMessage,
		ProviderRequest:   []byte(model.ProviderRequest),
		ProviderResponse:  []byte(model.ProviderResponse),
		ProcessedAt:       model.ProcessedAt,
		CreatedAt:         model.CreatedAt,
	}
}

func ToGORMPayoutAudit(audit *domain.PayoutAudit) *models.PayoutAuditModel {
	return &models.PayoutAuditModel{
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
		ProviderRequest:   jsonColumn(audit.ProviderRequest),
		ProviderResponse:  jsonColumn(audit.ProviderResponse),
		ProcessedAt:       audit.ProcessedAt,
		CreatedAt:         audit.CreatedAt,
	}
}

func jsonColumn(raw []byte) datatypes.JSON {
	if len(raw) == 0 {
		return nil
	}
	return datatypes.JSON(raw)
}
