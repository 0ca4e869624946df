package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	dispute := &domain.Dispute{
		ID:              model.ID,
		OrderID:         model.OrderID,
		HubID:           model.HubID,
		HubName:         model.HubName,
		Region:          model.Region,
		Commodity:       model.Commodity,
		Issue:           model.Issue,
		AnomalyType:     domain.AnomalyType(model.AnomalyType),
		Severity:        domain.Severity(model.Severity),
		Status:          domain.DisputeStatus(model.Status),
		ConfidenceScore: model.ConfidenceScore,
		Source:          model.Source,
		LastActionAt:    model.LastActionAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	for i := range model.Events {
		dispute.Events = append(dispute.Events, *ToDomainDisputeEvent(&model.Events[i]))
	}
	return dispute
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:              dispute.ID,
		OrderID:         dispute.OrderID,
		HubID:           dispute.HubID,
		HubName:         dispute.HubName,
		Region:          dispute.Region,
		Commodity:       dispute.Commodity,
		Issue:           dispute.Issue,
		AnomalyType:     string(dispute.AnomalyType),
		Severity:        string(dispute.Severity),
		Status:          string(dispute.Status),
		ConfidenceScore: dispute.ConfidenceScore,
		Source:          dispute.Source,
		LastActionAt:    dispute.LastActionAt,
		CreatedAt:       dispute.CreatedAt,
		UpdatedAt:       dispute.UpdatedAt,
	}
}

func ToDomainDisputeEvent(model *models.DisputeEventModel) *domain.DisputeEvent {
	return &domain.DisputeEvent{
		ID:             model.ID,
		DisputeID:      model.DisputeID,
		Action:         domain.ReviewAction(model.Action),
		ActorRole:      model.ActorRole,
		Message:        model.Message,
		PreviousStatus: domain.DisputeStatus(model.PreviousStatus),
		NextStatus:     domain.DisputeStatus(model.NextStatus),
		CreatedAt:      model.CreatedAt,
	}
}

func ToGORMDisputeEvent(event *domain.DisputeEvent) *models.DisputeEventModel {
	return &models.DisputeEventModel{
		ID:             event.ID,
		DisputeID:      event.DisputeID,
		Action:         string(event.Action),
		ActorRole:      event.ActorRole,
		Message:        event.Message,
		PreviousStatus: string(event.PreviousStatus),
		NextStatus:     string(event.NextStatus),
		CreatedAt:      event.CreatedAt,
	}
}
