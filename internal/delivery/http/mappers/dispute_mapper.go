package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

func ToDisputeResponse(d *domain.Dispute, withEvents bool) response.DisputeResponse {
	resp := response.DisputeResponse{
		ID:              d.ID,
		OrderID:         d.OrderID,
		HubID:           d.HubID,
		HubName:         d.HubName,
		Region:          d.Region,
		Commodity:       d.Commodity,
		Issue:           d.Issue,
		AnomalyType:     string(d.AnomalyType),
		Severity:        string(d.Severity),
		Status:          string(d.Status),
		ConfidenceScore: d.ConfidenceScore,
		Source:          d.Source,
		LastActionAt:    d.LastActionAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if !withEvents {
		return resp
	}
	resp.Events = make([]response.DisputeEventResponse, 0, len(d.Events))
	for _, e := range d.Events {
		resp.Events = append(resp.Events, response.DisputeEventResponse{
			ID:             e.ID,
			Action:         string(e.Action),
			ActorRole:      e.ActorRole,
			Message:        e.Message,
			PreviousStatus: string(e.PreviousStatus),
			NextStatus:     string(e.NextStatus),
			CreatedAt:      e.CreatedAt,
		})
	}
	return resp
}

func ToListDisputesResponse(out *disputedto.ListDisputesOutput) response.ListDisputesResponse {
	resp := response.ListDisputesResponse{
		Disputes: make([]response.DisputeResponse, 0, len(out.Disputes)),
		Pagination: response.Pagination{
			CurrentPage:  out.Pagination.CurrentPage,
			TotalPages:   out.Pagination.TotalPages,
			TotalItems:   out.Pagination.TotalItems,
			ItemsPerPage: out.Pagination.ItemsPerPage,
		},
	}
	for _, d := range out.Disputes {
		resp.Disputes = append(resp.Disputes, ToDisputeResponse(d, false))
	}
	return resp
}
