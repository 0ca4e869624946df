package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainParty(model *models.PartyModel) *domain.Party {
	return &domain.Party{
		ID:              model.ID,
		FullName:        model.FullName,
		PhoneNumber:     model.PhoneNumber,
		Email:           model.Email,
		PayoutAccountID: deref(model.PayoutAccountID),
	}
}
