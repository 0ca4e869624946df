package dispute

import (
	"context"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
)

func (uc *DefaultDisputeUsecase) GetDisputeByID(ctx context.Context, disputeID string) (*domain.Dispute, error) {
	return uc.DisputeRepo.GetByID(ctx, disputeID)
}

func (uc *DefaultDisputeUsecase) ListDisputes(ctx context.Context, input *disputedto.ListDisputesInput) (*disputedto.ListDisputesOutput, error) {
	filter := domain.DisputeFilter{Page: input.Page, Limit: input.Limit}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	if input.Status != "" {
		status, err := domain.ParseDisputeStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if input.AnomalyType != "" {
		anomaly, err := domain.ParseAnomalyType(input.AnomalyType)
		if err != nil {
			return nil, err
		}
		filter.AnomalyType = &anomaly
	}
	if input.Severity != "" {
		severity, err := domain.ParseSeverity(input.Severity)
		if err != nil {
			return nil, err
		}
		filter.Severity = &severity
	}
	if input.OrderID != "" {
		filter.OrderID = &input.OrderID
	}

	disputes, total, err := uc.DisputeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	return &disputedto.ListDisputesOutput{
		Disputes: disputes,
		Pagination: disputedto.Pagination{
			CurrentPage:  int32(filter.Page),
			TotalPages:   int32(totalPages),
			TotalItems:   int32(total),
			ItemsPerPage: int32(filter.Limit),
		},
	}, nil
}
