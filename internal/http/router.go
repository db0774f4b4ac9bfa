package http

import (
	"net/http"
	"time"

	"github.com/freshmart/storefront/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterDeps struct {
	Sessions       *identity.Sessions
	Cart           *CartHandler
	Checkout       *CheckoutHandler
	Orders         *OrdersHandler
	Products       *ProductHandler
	Session        *SessionHandler
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", deps.Session.StartSession)
		r.Delete("/session", deps.Session.EndSession)

		r.Get("/products", deps.Products.ListProducts)
		r.Get("/products/{productID}", deps.Products.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(deps.Sessions))

			r.Get("/cart", deps.Cart.GetCart)
			r.Post("/cart/items", deps.Cart.AddItem)
			r.Put("/cart/items/{productID}", deps.Cart.UpdateQuantity)
			r.Delete("/cart/items/{productID}", deps.Cart.RemoveItem)
			r.Delete("/cart", deps.Cart.ClearCart)

			r.Post("/checkout", deps.Checkout.PlaceOrder)

			r.Get("/orders", deps.Orders.ListOrders)
			r.Get("/orders/{orderID}", deps.Orders.GetOrder)
			r.Patch("/orders/{orderID}/status", deps.Orders.UpdateStatus)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
