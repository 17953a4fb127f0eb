package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/casafunko/orders-service/internal/order"
	"github.com/casafunko/orders-service/internal/payment"
)

// CheckoutHandler turns a storefront cart into a pending order and a
// hosted-checkout redirect.
type CheckoutHandler struct {
	svc order.Service
}

func NewCheckoutHandler(svc order.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type checkoutItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Qty       int64  `json:"qty"`
	Stock     int64  `json:"stock"`
}

type checkoutShipping struct {
	Carrier string `json:"carrier"`
	Price   int64  `json:"price"`
}

type checkoutRequest struct {
	Items    []checkoutItem    `json:"items"`
	Shipping *checkoutShipping `json:"shipping,omitempty"`
}

type checkoutResponse struct {
	InitPoint string `json:"initPoint"`
	SessionID string `json:"sessionId"`
	Reference string `json:"reference"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := order.CheckoutInput{
		Selections: make([]order.CartSelection, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Selections = append(in.Selections, order.CartSelection{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Qty,
			Stock:     it.Stock,
		})
	}
	if req.Shipping != nil {
		in.Shipping = &order.ShippingSelection{
			Carrier: req.Shipping.Carrier,
			Price:   req.Shipping.Price,
		}
	}

	result, err := h.svc.Checkout(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart),
			errors.Is(err, order.ErrShippingRequired),
			errors.Is(err, order.ErrInsufficientStock),
			errors.Is(err, order.ErrInvalidSelection):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, payment.ErrMissingAccessToken),
			errors.Is(err, payment.ErrMissingPublicKey):
			log.Error().Err(err).Msg("checkout rejected: payment provider not configured")
			respondError(w, http.StatusInternalServerError, "payment provider is not configured")
		default:
			log.Error().Err(err).Msg("checkout failed")
			respondError(w, http.StatusInternalServerError, "payment could not be started")
		}
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse{
		InitPoint: result.InitPoint,
		SessionID: result.SessionID,
		Reference: result.Reference,
	})
}
