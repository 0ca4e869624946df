package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/mappers"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-escrow-service/internal/usecase/dto/order"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/order"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/payout"
	"github.com/LavaJover/shvark-escrow-service/internal/usecase/release"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	uc       order.OrderUsecase
	releases release.ReleaseUsecase
	payouts  payout.PayoutUsecase
}

func NewOrderHandler(uc order.OrderUsecase, releases release.ReleaseUsecase, payouts payout.PayoutUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, releases: releases, payouts: payouts}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	buyerID := req.BuyerID
	if p, ok := middleware.PrincipalFrom(r.Context()); ok && !p.IsAdmin() {
		buyerID = p.Subject
	}

	created, err := h.uc.CreateOrder(r.Context(), &orderdto.CreateOrderInput{
		BuyerID:       buyerID,
		FarmerID:      req.FarmerID,
		BatchID:       req.BatchID,
		HubID:         req.HubID,
		HubName:       req.HubName,
		Region:        req.Region,
		Commodity:     req.Commodity,
		TotalPrice:    req.TotalPrice,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ToOrderResponse(created))
}

func (h *OrderHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorizeOrder(w, r); !ok {
		return
	}
	out, err := h.uc.StartCheckout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ToCheckoutResponse(out))
}

func (h *OrderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorizeOrder(w, r); !ok {
		return
	}
	out, err := h.uc.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ToSummaryResponse(out))
}

// ConfirmRelease is the buyer's delivery confirmation. It releases this one
// order and also serves as the retry path for release_failed orders.
func (h *OrderHandler) ConfirmRelease(w http.ResponseWriter, r *http.Request) {
	o, ok := h.authorizeOrder(w, r)
	if !ok {
		return
	}
	item, err := h.releases.ReleaseOrder(r.Context(), o.ID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	status := http.StatusOK
	if !item.OK && !item.Skipped {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, mappers.ToReleaseItemResponse(*item))
}

func (h *OrderHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.uc.UpdateTracking(r.Context(), &orderdto.UpdateTrackingInput{
		OrderID: chi.URLParam(r, "id"),
		Stage:   req.Stage,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mappers.ToOrderResponse(updated))
}

func (h *OrderHandler) ListPayoutAudits(w http.ResponseWriter, r *http.Request) {
	audits, err := h.payouts.ListAudits(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	resp := make([]response.PayoutAuditResponse, 0, len(audits))
	for _, audit := range audits {
		resp = append(resp, mappers.ToPayoutAuditResponse(audit))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"payout_audits": resp})
}

// authorizeOrder loads the order in the URL and checks that a buyer only
// touches their own orders. Admins may act on any order.
func (h *OrderHandler) authorizeOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	o, err := h.uc.GetOrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return nil, false
	}
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok || (!p.IsAdmin() && p.Subject != o.BuyerID) {
		writeError(w, http.StatusNotFound, "order not found")
		return nil, false
	}
	return o, true
}
