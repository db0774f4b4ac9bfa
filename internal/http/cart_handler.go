package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	cartdomain "github.com/freshmart/storefront/internal/cart/domain"
	"github.com/go-chi/chi/v5"
)

// CartEngine is the slice of the sync engine the HTTP layer consumes.
type CartEngine interface {
	AddItem(ctx context.Context, productID string, quantity int) error
	UpdateItemQuantity(ctx context.Context, productID string, newQuantity int) error
	RemoveItem(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
	Lines() []cartdomain.CartLine
	Total() float64
	ItemCount() int
}

type CartHandler struct {
	engine  CartEngine
	timeout time.Duration
}

func NewCartHandler(engine CartEngine, timeout time.Duration) *CartHandler {
	return &CartHandler{
		engine:  engine,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Lines     []cartdomain.CartLine `json:"lines"`
	Total     float64               `json:"total"`
	ItemCount int                   `json:"item_count"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Lines:     h.engine.Lines(),
		Total:     h.engine.Total(),
		ItemCount: h.engine.ItemCount(),
	})
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := h.engine.AddItem(ctx, req.ProductID, req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}
	h.GetCart(w, r)
}

// PUT /api/v1/cart/items/{productID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "productID")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	if err := h.engine.UpdateItemQuantity(ctx, productID, req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}
	h.GetCart(w, r)
}

// DELETE /api/v1/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "productID")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	if err := h.engine.RemoveItem(ctx, productID); err != nil {
		handleDomainError(w, err)
		return
	}
	h.GetCart(w, r)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.engine.ClearCart(ctx); err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
