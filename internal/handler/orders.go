package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/casafunko/orders-service/internal/order"
)

// OrderHandler exposes order status for storefront polling; webhook-driven
// updates are invisible to the buyer otherwise.
type OrderHandler struct {
	svc order.Service
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderStatusResponse struct {
	Reference     string    `json:"reference"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	TotalAmount   int64     `json:"total_amount"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (h *OrderHandler) GetByReference(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		respondError(w, http.StatusBadRequest, "reference is required")
		return
	}

	o, err := h.svc.GetByReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Str("reference", reference).Msg("failed to fetch order")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, orderStatusResponse{
		Reference:     o.Reference,
		Status:        o.Status.String(),
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		UpdatedAt:     o.UpdatedAt,
	})
}
