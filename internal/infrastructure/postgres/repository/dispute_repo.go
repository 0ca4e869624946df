package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultDisputeRepository struct {
	DB *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{DB: db}
}

func (r *DefaultDisputeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.DisputeModel{}).Count(&count).Error
	return count, err
}

// InsertIgnoreConflicts relies on the partial unique indexes of the disputes
// table; ON CONFLICT DO NOTHING matches any of them.
func (r *DefaultDisputeRepository) InsertIgnoreConflicts(ctx context.Context, disputes []*domain.Dispute) ([]*domain.Dispute, error) {
	var inserted []*domain.Dispute
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dispute := range disputes {
			model := mappers.ToGORMDispute(dispute)
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				continue
			}
			inserted = append(inserted, dispute)
			for i := range dispute.Events {
				if err := tx.Create(mappers.ToGORMDisputeEvent(&dispute.Events[i])).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed disputes: %w", err)
	}
	return inserted, nil
}

func (r *DefaultDisputeRepository) Create(ctx context.Context, dispute *domain.Dispute, event *domain.DisputeEvent) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := mappers.ToGORMDispute(dispute)
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateOpenDispute
			}
			return fmt.Errorf("create dispute: %w", err)
		}
		dispute.CreatedAt = model.CreatedAt
		dispute.UpdatedAt = model.UpdatedAt
		return tx.Create(mappers.ToGORMDisputeEvent(event)).Error
	})
}

func (r *DefaultDisputeRepository) FindOpenByOrder(ctx context.Context, orderID string, anomaly domain.AnomalyType) (*domain.Dispute, error) {
	var model models.DisputeModel
	err := r.DB.WithContext(ctx).
		Preload("Events", withEventOrder).
		Where("order_id = ? AND anomaly_type = ?", orderID, string(anomaly)).
		Where("status NOT IN ?", closedStatuses()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("open %s dispute for order %s: %w", anomaly, orderID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&model), nil
}

func (r *DefaultDisputeRepository) GetByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	var model models.DisputeModel
	err := r.DB.WithContext(ctx).
		Preload("Events", withEventOrder).
		Where("id = ?", disputeID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("dispute %s: %w", disputeID, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&model), nil
}

// Apply writes the review outcome and its timeline event atomically.
func (r *DefaultDisputeRepository) Apply(ctx context.Context, dispute *domain.Dispute, event *domain.DisputeEvent) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.DisputeModel{}).
			Where("id = ?", dispute.ID).
			Updates(map[string]interface{}{
				"status":         string(dispute.Status),
				"severity":       string(dispute.Severity),
				"last_action_at": dispute.LastActionAt,
				"updated_at":     dispute.UpdatedAt,
			}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateOpenDispute
			}
			return fmt.Errorf("update dispute %s: %w", dispute.ID, err)
		}
		return tx.Create(mappers.ToGORMDisputeEvent(event)).Error
	})
}

func (r *DefaultDisputeRepository) List(ctx context.Context, filter domain.DisputeFilter) ([]*domain.Dispute, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.DisputeModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.AnomalyType != nil {
		query = query.Where("anomaly_type = ?", string(*filter.AnomalyType))
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", string(*filter.Severity))
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var disputeModels []models.DisputeModel
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&disputeModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainDisputes(disputeModels), total, nil
}

func (r *DefaultDisputeRepository) ListOpenByOrder(ctx context.Context, orderID string) ([]*domain.Dispute, error) {
	var disputeModels []models.DisputeModel
	err := r.DB.WithContext(ctx).
		Preload("Events", withEventOrder).
		Where("order_id = ?", orderID).
		Where("status NOT IN ?", closedStatuses()).
		Order("created_at ASC").
		Find(&disputeModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainDisputes(disputeModels), nil
}

func withEventOrder(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func closedStatuses() []string {
	return []string{string(domain.DisputeResolved), string(domain.DisputeDismissed)}
}

func toDomainDisputes(disputeModels []models.DisputeModel) []*domain.Dispute {
	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes
}
