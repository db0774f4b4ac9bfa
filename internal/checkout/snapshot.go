package checkout

import (
	"math"
	"time"

	cartdomain "github.com/freshmart/storefront/internal/cart/domain"
)

// Snapshot is an immutable copy of the cart taken when checkout begins.
// Later cart mutations do not affect an in-flight order.
type Snapshot struct {
	Lines           []cartdomain.CartLine `json:"lines"`
	Subtotal        float64               `json:"subtotal"`
	DeliveryFee     float64               `json:"delivery_fee"`
	Tax             float64               `json:"tax"`
	GrandTotal      float64               `json:"grand_total"`
	DeliveryAddress string                `json:"delivery_address"`
	CapturedAt      time.Time             `json:"captured_at"`
}

func takeSnapshot(lines []cartdomain.CartLine, deliveryFee, taxRate float64, address string) *Snapshot {
	subtotal := 0.0
	for _, l := range lines {
		subtotal += l.Subtotal()
	}

	tax := roundCents(subtotal * taxRate)
	return &Snapshot{
		Lines:           lines,
		Subtotal:        roundCents(subtotal),
		DeliveryFee:     deliveryFee,
		Tax:             tax,
		GrandTotal:      roundCents(subtotal + deliveryFee + tax),
		DeliveryAddress: address,
		CapturedAt:      time.Now(),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
