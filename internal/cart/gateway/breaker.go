package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// breakerGateway trips after repeated transport failures so a flapping cart
// store fails fast instead of tying up every user operation for the full
// transport timeout. Open-circuit rejections surface as ErrRemoteUnavailable.
type breakerGateway struct {
	next  CartGateway
	fetch *gobreaker.CircuitBreaker[[]Line]
	write *gobreaker.CircuitBreaker[any]
}

func NewBreakerGateway(next CartGateway) CartGateway {
	settings := gobreaker.Settings{
		Name:        "cart-gateway",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Only transport failures count against the breaker.
			return err == nil || !errors.Is(err, ErrRemoteUnavailable)
		},
	}
	return &breakerGateway{
		next:  next,
		fetch: gobreaker.NewCircuitBreaker[[]Line](settings),
		write: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *breakerGateway) FetchAll(ctx context.Context, ownerID string) ([]Line, error) {
	lines, err := b.fetch.Execute(func() ([]Line, error) {
		return b.next.FetchAll(ctx, ownerID)
	})
	return lines, mapBreakerErr(err)
}

func (b *breakerGateway) UpsertQuantity(ctx context.Context, ownerID, productID string, quantity int) error {
	_, err := b.write.Execute(func() (any, error) {
		return nil, b.next.UpsertQuantity(ctx, ownerID, productID, quantity)
	})
	return mapBreakerErr(err)
}

func (b *breakerGateway) DeleteLine(ctx context.Context, ownerID, productID string) error {
	_, err := b.write.Execute(func() (any, error) {
		return nil, b.next.DeleteLine(ctx, ownerID, productID)
	})
	return mapBreakerErr(err)
}

func (b *breakerGateway) DeleteAll(ctx context.Context, ownerID string) error {
	_, err := b.write.Execute(func() (any, error) {
		return nil, b.next.DeleteAll(ctx, ownerID)
	})
	return mapBreakerErr(err)
}

func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return err
}
