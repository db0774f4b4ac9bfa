package cache

import (
	"context"
	"errors"

	"github.com/freshmart/storefront/internal/cart/gateway"
)

var ErrCacheMiss = errors.New("cart lines not found in cache")

// CartCache is a read-through cache of the persisted cart lines, keyed by
// owner. It only ever shortcuts hydration reads; every write path
// invalidates it.
type CartCache interface {
	Get(ctx context.Context, ownerID string) ([]gateway.Line, error)
	Set(ctx context.Context, ownerID string, lines []gateway.Line) error
	Delete(ctx context.Context, ownerID string) error
}
