package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/freshmart/storefront/internal/cart/engine"
	"github.com/freshmart/storefront/internal/cart/gateway"
	"github.com/freshmart/storefront/internal/catalog"
	"github.com/freshmart/storefront/internal/checkout"
	"github.com/freshmart/storefront/internal/order/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// handleDomainError maps the operation error taxonomy onto HTTP statuses.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNoIdentity):
		respondError(w, http.StatusUnauthorized, "no_identity", "sign in to use the cart")
	case errors.Is(err, gateway.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized", "identity does not match cart owner")
	case errors.Is(err, engine.ErrNotReady):
		respondError(w, http.StatusServiceUnavailable, "cart_hydrating", "cart is still loading, retry shortly")
	case errors.Is(err, engine.ErrStockExceeded):
		respondError(w, http.StatusConflict, "stock_exceeded", err.Error())
	case errors.Is(err, engine.ErrLineNotFound):
		respondError(w, http.StatusNotFound, "line_not_found", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, repository.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrEmptyAddress):
		respondError(w, http.StatusBadRequest, "empty_address", err.Error())
	case errors.Is(err, checkout.ErrOrderLinesFailed):
		respondError(w, http.StatusBadGateway, "order_lines_failed", err.Error())
	case errors.Is(err, checkout.ErrOrderCreateFailed):
		respondError(w, http.StatusBadGateway, "order_create_failed", err.Error())
	case errors.Is(err, gateway.ErrRemoteUnavailable):
		respondError(w, http.StatusBadGateway, "cart_store_unavailable", err.Error())
	case errors.Is(err, engine.ErrCartWriteFailed):
		respondError(w, http.StatusBadGateway, "cart_write_failed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
