package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/freshmart/storefront/internal/checkout"
	orderdomain "github.com/freshmart/storefront/internal/order/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPlacer struct {
	req   checkout.PlaceOrderRequest
	order *orderdomain.Order
	err   error
}

func (m *mockPlacer) PlaceOrder(_ context.Context, req checkout.PlaceOrderRequest) (*orderdomain.Order, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func TestPlaceOrder(t *testing.T) {
	placer := &mockPlacer{order: &orderdomain.Order{
		ID:         uuid.New(),
		OwnerID:    "user123",
		GrandTotal: 29.99,
		Status:     orderdomain.StatusPending,
	}}
	h := NewCheckoutHandler(placer, 5*time.Second)

	body := bytes.NewBufferString(`{"delivery_address":"1 Main St","phone":"555-0100","notes":"ring twice"}`)
	rec := httptest.NewRecorder()
	h.PlaceOrder(rec, httptest.NewRequest(http.MethodPost, "/checkout", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "1 Main St", placer.req.DeliveryAddress)
	assert.Equal(t, "555-0100", placer.req.Phone)

	var resp orderdomain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, placer.order.ID, resp.ID)
	assert.Equal(t, orderdomain.StatusPending, resp.Status)
}

func TestPlaceOrder_InvalidBody(t *testing.T) {
	h := NewCheckoutHandler(&mockPlacer{}, 5*time.Second)

	rec := httptest.NewRecorder()
	h.PlaceOrder(rec, httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrder_DomainErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{checkout.ErrEmptyCart, http.StatusBadRequest},
		{checkout.ErrEmptyAddress, http.StatusBadRequest},
		{checkout.ErrOrderCreateFailed, http.StatusBadGateway},
		{checkout.ErrOrderLinesFailed, http.StatusBadGateway},
	}
	for _, c := range cases {
		h := NewCheckoutHandler(&mockPlacer{err: c.err}, 5*time.Second)

		body := bytes.NewBufferString(`{"delivery_address":"1 Main St"}`)
		rec := httptest.NewRecorder()
		h.PlaceOrder(rec, httptest.NewRequest(http.MethodPost, "/checkout", body))

		assert.Equalf(t, c.want, rec.Code, "error %v", c.err)
	}
}
