package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPayoutAuditRepository only inserts and reads. payout_audits has a
// trigger rejecting UPDATE and DELETE.
type DefaultPayoutAuditRepository struct {
	DB *gorm.DB
}

func NewDefaultPayoutAuditRepository(db *gorm.DB) *DefaultPayoutAuditRepository {
	return &DefaultPayoutAuditRepository{DB: db}
}

func (r *DefaultPayoutAuditRepository) Record(ctx context.Context, audit *domain.PayoutAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.New().String()
	}
	model := mappers.ToGORMPayoutAudit(audit)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("record payout audit for order %s: %w", audit.OrderID, err)
	}
	audit.CreatedAt = model.CreatedAt
	return nil
}

func (r *DefaultPayoutAuditRepository) ListByOrderID(ctx context.Context, orderID string) ([]*domain.PayoutAudit, error) {
	var auditModels []models.PayoutAuditModel
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("processed_at ASC").
		Find(&auditModels).Error; err != nil {
		return nil, err
	}
	audits := make([]*domain.PayoutAudit, len(auditModels))
	for i := range auditModels {
		audits[i] = mappers.ToDomainPayoutAudit(&auditModels[i])
	}
	return audits, nil
}
