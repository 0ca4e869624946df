package mappers

import (
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/response"
	releasedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/release"
)

func ToReleaseItemResponse(item releasedto.ItemResult) response.ReleaseItemResponse {
	return response.ReleaseItemResponse{
		OrderID:           item.OrderID,
		OrderNumber:       item.OrderNumber,
		OK:                item.OK,
		Skipped:           item.Skipped,
		Status:            string(item.Status),
		Method:            string(item.Method),
		ExecutionMode:     string(item.ExecutionMode),
		Amount:            item.Amount,
		ExternalReference: item.ExternalReference,
		ErrorCode:         item.ErrorCode,
		Error:             item.Error,
		DisputeID:         item.DisputeID,
	}
}

func ToReleaseBatchResponse(report *releasedto.BatchReport) response.ReleaseBatchResponse {
	resp := response.ReleaseBatchResponse{
		Released:    report.Released,
		Failed:      report.Failed,
		Skipped:     report.Skipped,
		TotalAmount: report.TotalAmount,
		Items:       make([]response.ReleaseItemResponse, 0, len(report.Items)),
	}
	for _, item := range report.Items {
		resp.Items = append(resp.Items, ToReleaseItemResponse(item))
	}
	return resp
}
