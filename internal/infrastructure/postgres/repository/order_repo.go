package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	model := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.first(ctx, "id = ?", orderID)
}

func (r *DefaultOrderRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Order, error) {
	return r.first(ctx, "payment_intent_id = ?", paymentIntentID)
}

func (r *DefaultOrderRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return r.first(ctx, "checkout_session_id = ?", sessionID)
}

func (r *DefaultOrderRepository) first(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var model models.OrderModel
	if err := r.DB.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainOrder(&model), nil
}

func (r *DefaultOrderRepository) ExistsOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	return count > 0, err
}

// UpdateGuarded is a compare-and-set on the status columns: the WHERE clause
// carries the legal source states so a concurrent writer cannot be overwritten.
func (r *DefaultOrderRepository) UpdateGuarded(ctx context.Context, orderID string, guard domain.OrderGuard, changes domain.OrderChanges) error {
	cols := mappers.ToOrderColumns(changes)
	if len(cols) == 0 {
		return nil
	}
	cols["updated_at"] = gorm.Expr("NOW()")

	query := r.DB.WithContext(ctx).Model(&models.OrderModel{}).Where("id = ?", orderID)
	if len(guard.PaymentStatuses) > 0 {
		query = query.Where("payment_status IN ?", toStrings(guard.PaymentStatuses))
	}
	if len(guard.EscrowStatuses) > 0 {
		query = query.Where("escrow_status IN ?", toStrings(guard.EscrowStatuses))
	}

	result := query.Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("update order %s: %w", orderID, result.Error)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.DB.WithContext(ctx).Model(&models.OrderModel{}).Where("id = ?", orderID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
		}
		return fmt.Errorf("order %s: %w", orderID, domain.ErrInvalidTransition)
	}
	return nil
}

func (r *DefaultOrderRepository) ListReleasable(ctx context.Context, limit int) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("payment_status = ? AND escrow_status = ?", string(domain.PaymentDepositPaid), string(domain.EscrowFunded)).
		Order("created_at ASC").
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

func (r *DefaultOrderRepository) ListForDerivation(ctx context.Context) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("tracking_stage <> ?", string(domain.StageCancelled)).
		Order("created_at ASC").
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

func toDomainOrders(orderModels []models.OrderModel) []*domain.Order {
	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
