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

// DefaultPartyRepository reads the farmer/buyer directory. Parties are
// written by the marketplace, never by this service.
type DefaultPartyRepository struct {
	DB *gorm.DB
}

func NewDefaultPartyRepository(db *gorm.DB) *DefaultPartyRepository {
	return &DefaultPartyRepository{DB: db}
}

func (r *DefaultPartyRepository) FindByID(ctx context.Context, id string) (*domain.Party, error) {
	var model models.PartyModel
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("party %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return mappers.ToDomainParty(&model), nil
}
