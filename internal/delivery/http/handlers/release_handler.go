package handlers

import (
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/release"
)

type ReleaseHandler struct {
	uc           release.ReleaseUsecase
	defaultLimit int
}

func NewReleaseHandler(uc release.ReleaseUsecase, defaultLimit int) *ReleaseHandler {
	return &ReleaseHandler{uc: uc, defaultLimit: defaultLimit}
}

// ReleaseBatch runs one operator-triggered batch. Per-order failures are part
// of the report; only a failure to select orders is an error response.
func (h *ReleaseHandler) ReleaseBatch(w http.ResponseWriter, r *http.Request) {
	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	report, err := h.uc.ReleaseBatch(r.Context(), limit, release.TriggerOperator)
	if err != nil && report == nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ToReleaseBatchResponse(report))
}
