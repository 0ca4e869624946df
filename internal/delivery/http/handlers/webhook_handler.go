package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/webhook"
)

const maxWebhookBody = 65536

type WebhookHandler struct {
	uc webhook.WebhookUsecase
}

func NewWebhookHandler(uc webhook.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

// Stripe acknowledges processed and ignored events with 200. Retryable
// failures answer 500 so the provider re-delivers.
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	outcome, err := h.uc.Ingest(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": string(outcome)})
	case errors.Is(err, domain.ErrSignatureInvalid), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid webhook")
	default:
		writeError(w, http.StatusInternalServerError, "processing failed")
	}
}
