package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/dispute"
	disputedto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/dispute"
	"github.com/go-chi/chi/v5"
)

type DisputeHandler struct {
	uc dispute.DisputeUsecase
}

func NewDisputeHandler(uc dispute.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{uc: uc}
}

func (h *DisputeHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	out, err := h.uc.ListDisputes(r.Context(), &disputedto.ListDisputesInput{
		Status:      q.Get("status"),
		AnomalyType: q.Get("anomaly_type"),
		Severity:    q.Get("severity"),
		OrderID:     q.Get("order_id"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ToListDisputesResponse(out))
}

func (h *DisputeHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	d, err := h.uc.GetDisputeByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ToDisputeResponse(d, true))
}

func (h *DisputeHandler) CreateDispute(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := h.uc.CreateDispute(r.Context(), &disputedto.CreateDisputeInput{
		OrderID:     req.OrderID,
		HubID:       req.HubID,
		HubName:     req.HubName,
		Region:      req.Region,
		Commodity:   req.Commodity,
		Issue:       req.Issue,
		AnomalyType: req.AnomalyType,
		Severity:    req.Severity,
		ActorRole:   actorRole(r),
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ToDisputeResponse(d, true))
}

func (h *DisputeHandler) ReviewDispute(w http.ResponseWriter, r *http.Request) {
	var req request.ReviewDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := h.uc.ReviewDispute(r.Context(), &disputedto.ReviewDisputeInput{
		DisputeID: chi.URLParam(r, "id"),
		Action:    req.Action,
		ActorRole: actorRole(r),
		Comment:   req.Comment,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ToDisputeResponse(d, true))
}

func (h *DisputeHandler) Seed(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.Seed(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.SeedResponse{Created: out.Created, Skipped: out.Skipped})
}

func actorRole(r *http.Request) string {
	if p, ok := middleware.PrincipalFrom(r.Context()); ok && p.Role != "" {
		return p.Role
	}
	return middleware.RoleAdmin
}
