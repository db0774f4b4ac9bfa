package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/freshmart/storefront/internal/cart/cache"
	"github.com/freshmart/storefront/internal/cart/domain"
	"github.com/freshmart/storefront/internal/cart/gateway"
	"github.com/freshmart/storefront/internal/catalog"
	"github.com/freshmart/storefront/internal/identity"
	"github.com/freshmart/storefront/internal/notify"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type State string

const (
	StateInactive  State = "INACTIVE"
	StateHydrating State = "HYDRATING"
	StateReady     State = "READY"
)

// Engine keeps the local cart projection synchronized with the persisted
// cart. Commits are confirmed-only: the projection is updated after the
// remote write succeeds, never before. Operations on the same product line
// are serialized; different lines may be in flight concurrently.
type Engine struct {
	gateway  gateway.CartGateway
	catalog  catalog.Catalog
	cache    cache.CartCache
	notifier notify.Notifier

	projection *domain.Projection

	mu      sync.Mutex
	state   State
	ownerID string
	locks   map[string]*sync.Mutex

	sfg singleflight.Group // collapses concurrent hydrations per owner
}

func NewEngine(gw gateway.CartGateway, cat catalog.Catalog, cc cache.CartCache, n notify.Notifier) *Engine {
	return &Engine{
		gateway:    gw,
		catalog:    cat,
		cache:      cc,
		notifier:   n,
		projection: domain.NewProjection(),
		state:      StateInactive,
		locks:      make(map[string]*sync.Mutex),
	}
}

// Run reacts to identity transitions until ctx is done. Activation triggers
// hydration, deactivation clears the projection.
func (e *Engine) Run(ctx context.Context, events <-chan identity.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case identity.KindActivated:
				if err := e.Activate(ctx, ev.Identity); err != nil {
					slog.Error("cart hydration failed", "owner", ev.Identity.ID, "err", err)
				}
			case identity.KindDeactivated:
				e.Deactivate()
			}
		}
	}
}

// Activate starts a session for the identity and hydrates the projection
// from the remote store. On failure the engine stays in Hydrating, a
// repeated Activate retries.
func (e *Engine) Activate(ctx context.Context, id identity.Identity) error {
	e.mu.Lock()
	e.ownerID = id.ID
	e.state = StateHydrating
	e.locks = make(map[string]*sync.Mutex)
	e.projection.Clear()
	e.mu.Unlock()

	return e.hydrate(ctx, id.ID)
}

func (e *Engine) Deactivate() {
	e.mu.Lock()
	e.state = StateInactive
	e.ownerID = ""
	e.locks = make(map[string]*sync.Mutex)
	e.mu.Unlock()
	e.projection.Clear()
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Owner returns the active session owner once hydration completed.
func (e *Engine) Owner() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady {
		return "", false
	}
	return e.ownerID, true
}

func (e *Engine) Lines() []domain.CartLine { return e.projection.Lines() }
func (e *Engine) Total() float64           { return e.projection.Total() }
func (e *Engine) ItemCount() int           { return e.projection.ItemCount() }

func (e *Engine) FindByProduct(productID string) (domain.CartLine, bool) {
	return e.projection.FindByProduct(productID)
}

func (e *Engine) hydrate(ctx context.Context, ownerID string) error {
	v, err, _ := e.sfg.Do(ownerID, func() (interface{}, error) {
		rows, err := e.loadLines(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		// Join catalog data the way the storefront renders it. A line whose
		// product vanished from the catalog is dropped from the view.
		lines := make([]domain.CartLine, 0, len(rows))
		for _, row := range rows {
			product, err := e.catalog.GetProduct(ctx, row.ProductID)
			if errors.Is(err, catalog.ErrProductNotFound) {
				slog.Warn("cart line references missing product", "product", row.ProductID)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("load product %s: %w", row.ProductID, err)
			}
			lines = append(lines, domain.CartLine{
				LineID:    row.LineID,
				ProductID: row.ProductID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  row.Quantity,
				ImageURL:  product.ImageURL,
			})
		}
		return lines, nil
	})

	if err != nil {
		e.notifier.Notify(ctx, notify.Error(ownerID, "Error loading cart", err.Error()))
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ownerID != ownerID {
		// Session changed while hydrating, discard the result.
		return nil
	}
	e.projection.Hydrate(v.([]domain.CartLine))
	e.state = StateReady
	return nil
}

func (e *Engine) loadLines(ctx context.Context, ownerID string) ([]gateway.Line, error) {
	rows, err := e.cache.Get(ctx, ownerID)
	if err == nil {
		return rows, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("cart cache get failed", "err", err) // log and fall through to the store
	}

	rows, err = e.gateway.FetchAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := e.cache.Set(context.Background(), ownerID, rows); err != nil {
			slog.Warn("cart cache set failed", "err", err)
		}
	}()

	return rows, nil
}

// AddItem merges the delta into any existing line for the product and
// commits the result, remote first. Quantity defaults to one.
func (e *Engine) AddItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	owner, err := e.session()
	if err != nil {
		if errors.Is(err, ErrNoIdentity) {
			e.notifier.Notify(ctx, notify.Error(owner, "Please sign in", "You need to be signed in to add items to cart"))
		}
		return err
	}

	unlock := e.lockLine(productID)
	defer unlock()

	product, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		e.notifier.Notify(ctx, notify.Error(owner, "Error adding to cart", err.Error()))
		return fmt.Errorf("lookup product: %w", err)
	}

	target := quantity
	lineID := uuid.NewString()
	existing, ok := e.projection.FindByProduct(productID)
	if ok {
		target = domain.MergeAdd(existing.Quantity, quantity)
		lineID = existing.LineID
	}

	if target > product.AvailableStock {
		e.notifier.Notify(ctx, notify.Error(owner, "Not enough stock",
			fmt.Sprintf("Only %d of %s available", product.AvailableStock, product.Name)))
		return fmt.Errorf("%w: %s", ErrStockExceeded, productID)
	}

	if err := e.gateway.UpsertQuantity(ctx, owner, productID, target); err != nil {
		return e.writeFailed(ctx, owner, "Error adding to cart", err)
	}

	line := domain.CartLine{
		LineID:    lineID,
		ProductID: productID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  target,
		ImageURL:  product.ImageURL,
	}
	e.projection.Upsert(line)
	e.invalidateCache(owner)

	e.notifier.Notify(ctx, notify.Success(owner, "Added to cart",
		fmt.Sprintf("%s has been added to your cart", product.Name)))
	return nil
}

// UpdateItemQuantity sets an absolute quantity. Zero or less removes the
// line entirely.
func (e *Engine) UpdateItemQuantity(ctx context.Context, productID string, newQuantity int) error {
	change := domain.SetQuantity(newQuantity)
	if change.Remove {
		return e.RemoveItem(ctx, productID)
	}

	owner, err := e.session()
	if err != nil {
		return err
	}

	unlock := e.lockLine(productID)
	defer unlock()

	existing, ok := e.projection.FindByProduct(productID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrLineNotFound, productID)
	}

	product, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		e.notifier.Notify(ctx, notify.Error(owner, "Error updating cart", err.Error()))
		return fmt.Errorf("lookup product: %w", err)
	}
	if change.NewQuantity > product.AvailableStock {
		e.notifier.Notify(ctx, notify.Error(owner, "Not enough stock",
			fmt.Sprintf("Only %d of %s available", product.AvailableStock, product.Name)))
		return fmt.Errorf("%w: %s", ErrStockExceeded, productID)
	}

	if err := e.gateway.UpsertQuantity(ctx, owner, productID, change.NewQuantity); err != nil {
		return e.writeFailed(ctx, owner, "Error updating cart", err)
	}

	existing.Quantity = change.NewQuantity
	e.projection.Upsert(existing)
	e.invalidateCache(owner)
	return nil
}

func (e *Engine) RemoveItem(ctx context.Context, productID string) error {
	owner, err := e.session()
	if err != nil {
		return err
	}

	unlock := e.lockLine(productID)
	defer unlock()

	if err := e.gateway.DeleteLine(ctx, owner, productID); err != nil {
		return e.writeFailed(ctx, owner, "Error removing item", err)
	}

	e.projection.RemoveByProduct(productID)
	e.invalidateCache(owner)

	e.notifier.Notify(ctx, notify.Success(owner, "Item removed", "Item has been removed from your cart"))
	return nil
}

// ClearCart empties the persisted cart then the projection. Also invoked by
// checkout after an order is fully placed.
func (e *Engine) ClearCart(ctx context.Context) error {
	owner, err := e.session()
	if err != nil {
		return err
	}

	if err := e.gateway.DeleteAll(ctx, owner); err != nil {
		return e.writeFailed(ctx, owner, "Error clearing cart", err)
	}

	e.projection.Clear()
	e.invalidateCache(owner)
	return nil
}

func (e *Engine) session() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateReady:
		return e.ownerID, nil
	case StateHydrating:
		return e.ownerID, ErrNotReady
	default:
		return "", ErrNoIdentity
	}
}

// lockLine serializes operations per product. A second call for the same
// product waits for the first to settle before issuing its remote write, so
// results commit in issue order, not completion order.
func (e *Engine) lockLine(productID string) func() {
	e.mu.Lock()
	l, ok := e.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[productID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (e *Engine) writeFailed(ctx context.Context, owner, title string, err error) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		// Identity mismatch is fatal for the session, force re-authentication.
		e.Deactivate()
	}
	e.notifier.Notify(ctx, notify.Error(owner, title, err.Error()))
	return fmt.Errorf("%w: %w", ErrCartWriteFailed, err)
}

func (e *Engine) invalidateCache(ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.cache.Delete(ctx, ownerID); err != nil {
		slog.Warn("cart cache invalidate failed", "err", err)
	}
}
