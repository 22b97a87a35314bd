package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"stockroom/internal/inventory"
	"stockroom/internal/pricing"
)

func NewRouter(inventoryCtrl *inventory.Controller, pricingCtrl *pricing.Controller, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/products/{productId}/allocations", inventoryCtrl.HandleAllocate)
		r.Get("/products/{productId}/lots", inventoryCtrl.HandleListLots)
		r.Get("/products/{productId}/price", pricingCtrl.HandleResolvePrice)

		r.Post("/reservations", inventoryCtrl.HandleReserve)
		r.Post("/reservations/{reservationId}/release", inventoryCtrl.HandleReleaseReservation)

		r.Post("/lots/{lotId}/shipments", inventoryCtrl.HandleShip)
		r.Post("/lots/{lotId}/releases", inventoryCtrl.HandleReleaseLot)
	})

	return r
}
