package engine

import (
	"context"
	"sync"

	"github.com/freshmart/storefront/internal/cart/cache"
	"github.com/freshmart/storefront/internal/cart/gateway"
	"github.com/freshmart/storefront/internal/catalog"
)

type gatewayCall struct {
	Op        string
	ProductID string
	Quantity  int
}

// mockGateway implements gateway.CartGateway. The entered/release channels
// gate UpsertQuantity so tests can hold a remote write in flight.
type mockGateway struct {
	mu        sync.Mutex
	rows      []gateway.Line
	calls     []gatewayCall
	fetchErr  error
	upsertErr error
	deleteErr error

	entered chan gatewayCall
	release chan struct{}
}

func (m *mockGateway) FetchAll(_ context.Context, ownerID string) ([]gateway.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "fetch"})
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]gateway.Line, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *mockGateway) UpsertQuantity(_ context.Context, ownerID, productID string, quantity int) error {
	call := gatewayCall{Op: "upsert", ProductID: productID, Quantity: quantity}
	if m.entered != nil {
		m.entered <- call
	}
	if m.release != nil {
		<-m.release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for i := range m.rows {
		if m.rows[i].ProductID == productID {
			m.rows[i].Quantity = quantity
			return nil
		}
	}
	m.rows = append(m.rows, gateway.Line{
		LineID:    "line-" + productID,
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  quantity,
	})
	return nil
}

func (m *mockGateway) DeleteLine(_ context.Context, _, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "delete", ProductID: productID})
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, row := range m.rows {
		if row.ProductID == productID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockGateway) DeleteAll(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gatewayCall{Op: "deleteAll"})
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.rows = nil
	return nil
}

func (m *mockGateway) callLog() []gatewayCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]gatewayCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockGateway) upsertCalls() []gatewayCall {
	var out []gatewayCall
	for _, c := range m.callLog() {
		if c.Op == "upsert" {
			out = append(out, c)
		}
	}
	return out
}

type mockCatalog struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
	err      error
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockCatalog) ListProducts(context.Context) ([]*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*catalog.Product, 0, len(m.products))
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type mockCache struct {
	mu      sync.Mutex
	rows    []gateway.Line
	present bool
	deletes int
	sets    int
}

func (m *mockCache) Get(context.Context, string) ([]gateway.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present {
		return nil, cache.ErrCacheMiss
	}
	out := make([]gateway.Line, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *mockCache) Set(_ context.Context, _ string, rows []gateway.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = rows
	m.present = true
	m.sets++
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = nil
	m.present = false
	m.deletes++
	return nil
}

func (m *mockCache) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *mockCache) deleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes
}
