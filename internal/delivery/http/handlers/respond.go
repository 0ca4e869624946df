package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response.ErrorResponse{Error: message})
}

// writeUsecaseError maps the domain error taxonomy onto HTTP statuses.
// Unclassified errors are logged and hidden behind a generic 500.
func writeUsecaseError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedPayoutMethod),
		errors.Is(err, domain.ErrUnsupportedAction):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrReleaseInProgress),
		errors.Is(err, domain.ErrDuplicateOpenDispute):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrProviderDisabled),
		errors.Is(err, domain.ErrPayoutNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrProviderRejected),
		errors.Is(err, domain.ErrProviderTimeout):
		status = http.StatusBadGateway
	}

	resp := response.ErrorResponse{Error: err.Error()}
	var payoutErr *domain.PayoutError
	if errors.As(err, &payoutErr) {
		resp.Code = payoutErr.Code
		resp.Error = payoutErr.Message
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}
