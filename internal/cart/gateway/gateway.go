package gateway

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRemoteUnavailable wraps transport failures. The caller may retry the
	// same operation, quantity writes are idempotent.
	ErrRemoteUnavailable = errors.New("cart store unavailable")
	// ErrUnauthorized means the caller's identity does not match the owner of
	// the requested rows. Fatal for the session.
	ErrUnauthorized = errors.New("cart access not authorized")
)

// Line is a persisted cart row, addressable by (owner_id, product_id).
type Line struct {
	LineID    string    `bson:"line_id"`
	OwnerID   string    `bson:"owner_id"`
	ProductID string    `bson:"product_id"`
	Quantity  int       `bson:"quantity"`
	AddedAt   time.Time `bson:"added_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// CartGateway reads and writes the authoritative persisted cart.
// Consumers define this interface, not the MongoDB implementation.
type CartGateway interface {
	FetchAll(ctx context.Context, ownerID string) ([]Line, error)
	// UpsertQuantity sets the stored quantity for (ownerID, productID),
	// inserting the row if absent. Idempotent under retry.
	UpsertQuantity(ctx context.Context, ownerID, productID string, quantity int) error
	// DeleteLine and DeleteAll are no-ops when nothing matches, deleting an
	// absent resource is not an error here.
	DeleteLine(ctx context.Context, ownerID, productID string) error
	DeleteAll(ctx context.Context, ownerID string) error
}
