package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var ErrUnknownStatus = errors.New("unknown order status")

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo encodes the operator lifecycle: pending orders get
// confirmed or cancelled, confirmed orders get delivered or cancelled.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusDelivered || next == StatusCancelled
	default:
		return false
	}
}

// Line captures the unit price at order time. It never changes afterwards,
// even when the catalog price moves.
type Line struct {
	OrderID          uuid.UUID `json:"order_id"`
	ProductID        string    `json:"product_id"`
	Quantity         int       `json:"quantity"`
	UnitPriceAtOrder float64   `json:"unit_price"`
}

type Order struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Subtotal        float64   `json:"subtotal"`
	DeliveryFee     float64   `json:"delivery_fee"`
	Tax             float64   `json:"tax"`
	GrandTotal      float64   `json:"grand_total"`
	DeliveryAddress string    `json:"delivery_address"`
	Phone           string    `json:"phone,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Status          Status    `json:"status"`
	Lines           []Line    `json:"lines"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
