package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/freshmart/storefront/internal/checkout"
	orderdomain "github.com/freshmart/storefront/internal/order/domain"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req checkout.PlaceOrderRequest) (*orderdomain.Order, error)
}

type CheckoutHandler struct {
	orchestrator OrderPlacer
	timeout      time.Duration
}

func NewCheckoutHandler(orchestrator OrderPlacer, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		timeout:      timeout,
	}
}

type PlaceOrderRequestDTO struct {
	DeliveryAddress string `json:"delivery_address"`
	Phone           string `json:"phone"`
	Notes           string `json:"notes"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orchestrator.PlaceOrder(ctx, checkout.PlaceOrderRequest{
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
		Notes:           req.Notes,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}
