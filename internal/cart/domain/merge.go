package domain

// MergeAdd combines an add-to-cart delta with an existing line quantity.
func MergeAdd(existing, delta int) int {
	return existing + delta
}

type QuantityChange struct {
	NewQuantity int
	Remove      bool
}

// SetQuantity resolves an absolute quantity target. A target of zero or less
// means the line must be removed, never stored as zero.
func SetQuantity(target int) QuantityChange {
	if target <= 0 {
		return QuantityChange{NewQuantity: 0, Remove: true}
	}
	return QuantityChange{NewQuantity: target}
}
