package checkout

import "errors"

var (
	ErrEmptyCart    = errors.New("cart is empty, nothing to checkout")
	ErrEmptyAddress = errors.New("delivery address is required")
	// ErrOrderCreateFailed means the header write failed, nothing was
	// persisted and the cart is untouched.
	ErrOrderCreateFailed = errors.New("order create failed")
	// ErrOrderLinesFailed means the header was persisted but its lines were
	// not. The header is left in place and the cart is not cleared, this is
	// the one accepted inconsistency window.
	ErrOrderLinesFailed = errors.New("order lines write failed")
)
