package domain

// CartLine is one product entry in the local cart view. Display fields
// (Name, UnitPrice, ImageURL) come from the catalog at hydration or add time;
// only product id and quantity are authoritative in the remote store.
type CartLine struct {
	LineID    string  `json:"line_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}

func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
