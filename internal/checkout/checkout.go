package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	cartdomain "github.com/freshmart/storefront/internal/cart/domain"
	"github.com/freshmart/storefront/internal/cart/engine"
	"github.com/freshmart/storefront/internal/notify"
	orderdomain "github.com/freshmart/storefront/internal/order/domain"
	"github.com/freshmart/storefront/internal/order/repository"
	"github.com/google/uuid"
)

// Cart is what the orchestrator needs from the sync engine.
// Consumers define this interface, not the engine.
type Cart interface {
	Owner() (string, bool)
	Lines() []cartdomain.CartLine
	ClearCart(ctx context.Context) error
}

type PlaceOrderRequest struct {
	DeliveryAddress string
	Phone           string
	Notes           string
}

// Orchestrator drives order placement: snapshot, header, lines, cart clear,
// strictly in that order. The order stores support no multi-document
// transaction, so each step owns its own failure semantics.
type Orchestrator struct {
	cart     Cart
	orders   repository.OrderRepository
	notifier notify.Notifier

	deliveryFee float64
	taxRate     float64
}

func NewOrchestrator(cart Cart, orders repository.OrderRepository, n notify.Notifier, deliveryFee, taxRate float64) *Orchestrator {
	return &Orchestrator{
		cart:        cart,
		orders:      orders,
		notifier:    n,
		deliveryFee: deliveryFee,
		taxRate:     taxRate,
	}
}

// PlaceOrder persists the order captured by a snapshot of the current cart.
//
// Failure semantics, in step order:
//   - header write fails: nothing persisted, cart untouched, ErrOrderCreateFailed
//   - line write fails: header stays (pending, zero lines), cart NOT cleared,
//     ErrOrderLinesFailed; no compensating delete is attempted
//   - cart clear fails: the order is still placed, clearing is best-effort
func (o *Orchestrator) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*orderdomain.Order, error) {
	owner, ok := o.cart.Owner()
	if !ok {
		return nil, engine.ErrNoIdentity
	}

	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		o.notifier.Notify(ctx, notify.Error(owner, "Delivery address required", "Please enter your delivery address"))
		return nil, ErrEmptyAddress
	}

	lines := o.cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot := takeSnapshot(lines, o.deliveryFee, o.taxRate, address)

	order := &orderdomain.Order{
		ID:              uuid.New(),
		OwnerID:         owner,
		Subtotal:        snapshot.Subtotal,
		DeliveryFee:     snapshot.DeliveryFee,
		Tax:             snapshot.Tax,
		GrandTotal:      snapshot.GrandTotal,
		DeliveryAddress: snapshot.DeliveryAddress,
		Phone:           req.Phone,
		Notes:           req.Notes,
		Status:          orderdomain.StatusPending,
	}

	if err := o.orders.CreateOrder(ctx, order); err != nil {
		o.notifier.Notify(ctx, notify.Error(owner, "Error placing order", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrOrderCreateFailed, err)
	}

	orderLines := make([]orderdomain.Line, 0, len(snapshot.Lines))
	for _, l := range snapshot.Lines {
		orderLines = append(orderLines, orderdomain.Line{
			OrderID:          order.ID,
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			UnitPriceAtOrder: l.UnitPrice,
		})
	}

	if err := o.orders.CreateOrderLines(ctx, order.ID, orderLines); err != nil {
		// The header now exists without lines. Leave it for the operator
		// flow and keep the cart so the user can retry.
		slog.Error("order lines write failed after header create", "order", order.ID, "err", err)
		o.notifier.Notify(ctx, notify.Error(owner, "Error placing order", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrOrderLinesFailed, err)
	}
	order.Lines = orderLines

	if err := o.cart.ClearCart(ctx); err != nil {
		slog.Warn("cart clear after checkout failed", "order", order.ID, "err", err)
	}

	o.notifier.Notify(ctx, notify.Success(owner, "Order placed successfully!",
		"Your order has been confirmed and will be delivered soon"))
	return order, nil
}
