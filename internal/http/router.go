package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the API surface: products, the per-user cart and checkout.
func NewRouter(cart CartService, checkout CheckoutRunner, catalog ProductCatalog, orders OrderReader, session IdentitySession, requestTimeout time.Duration) http.Handler {
	cartHandler := NewCartHandler(cart, catalog, requestTimeout)
	checkoutHandler := NewCheckoutHandler(checkout, requestTimeout)
	productHandler := NewProductHandler(catalog, requestTimeout)
	orderHandler := NewOrderHandler(orders, requestTimeout)
	sessionHandler := NewSessionHandler(session)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(AuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", sessionHandler.Login)
		r.Delete("/session", sessionHandler.Logout)
		r.Get("/session", sessionHandler.GetSession)

		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{id}", productHandler.GetProduct)

		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Patch("/cart/items/{id}/dates", cartHandler.UpdateDates)
		r.Patch("/cart/items/{id}/quantity", cartHandler.UpdateQuantity)
		r.Delete("/cart/items/{id}", cartHandler.RemoveItem)

		r.Post("/checkout", checkoutHandler.Checkout)

		r.Get("/orders", orderHandler.ListOrders)
		r.Get("/orders/{id}", orderHandler.GetOrder)
	})

	return r
}
