package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	ImageURL       string  `json:"image_url,omitempty"`
	AvailableStock int     `json:"available_stock"`
}

// Catalog supplies product display data and the stock ceiling. The cart
// engine reads it, nothing in this module writes products.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
}
