package repository

import (
	"context"
	"errors"

	"github.com/freshmart/storefront/internal/order/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository persists order headers and lines. Header and lines are
// separate writes on purpose: there is no cross-store transaction with the
// cart, and the partial-failure window (header without lines) must stay
// observable to callers and operators.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateOrderLines(ctx context.Context, orderID uuid.UUID, lines []domain.Line) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next domain.Status) error
	RunMigrations(*Credentials) error
	Close() error
}
