package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/casafunko/orders-service/internal/handler"
	"github.com/casafunko/orders-service/internal/order"
)

func NewRouter(svc order.Service, webhookSecret string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	checkout := handler.NewCheckoutHandler(svc)
	webhook := handler.NewWebhookHandler(svc, webhookSecret)
	orders := handler.NewOrderHandler(svc)

	r.Post("/api/checkout", checkout.Checkout)
	r.Post("/api/webhooks/mercadopago", webhook.Handle)
	r.Get("/api/orders/{reference}", orders.GetByReference)

	return r
}
