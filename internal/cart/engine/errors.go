package engine

import "errors"

var (
	// ErrNoIdentity rejects operations attempted without an active session.
	ErrNoIdentity = errors.New("no active identity")
	// ErrNotReady rejects operations while the cart is still hydrating.
	ErrNotReady = errors.New("cart not hydrated yet")
	// ErrCartWriteFailed wraps a remote write failure. The projection is left
	// untouched, the caller may retry the same operation.
	ErrCartWriteFailed = errors.New("cart write failed")
	// ErrStockExceeded rejects a quantity above the catalog's available stock
	// before any remote write is issued.
	ErrStockExceeded = errors.New("requested quantity exceeds available stock")
	// ErrLineNotFound means the product has no line in the current cart.
	ErrLineNotFound = errors.New("no cart line for product")
)
