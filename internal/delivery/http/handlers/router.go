package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-escrow-service/internal/delivery/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Orders   *OrderHandler
	Disputes *DisputeHandler
	Releases *ReleaseHandler
	Webhooks *WebhookHandler

	JWTSecret string
	Metrics   http.Handler
	Health    func(ctx context.Context) error
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Post("/webhooks/stripe", cfg.Webhooks.Stripe)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleBuyer, middleware.RoleAdmin))
			r.Post("/orders", cfg.Orders.CreateOrder)
			r.Post("/orders/{id}/checkout", cfg.Orders.StartCheckout)
			r.Get("/orders/{id}/summary", cfg.Orders.Summary)
			r.Post("/orders/{id}/confirm-release", cfg.Orders.ConfirmRelease)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleAdmin))
			r.Post("/escrow/release-batch", cfg.Releases.ReleaseBatch)
			r.Post("/orders/{id}/tracking", cfg.Orders.UpdateTracking)
			r.Get("/orders/{id}/payout-audits", cfg.Orders.ListPayoutAudits)

			r.Get("/disputes", cfg.Disputes.ListDisputes)
			r.Post("/disputes", cfg.Disputes.CreateDispute)
			r.Post("/disputes/seed", cfg.Disputes.Seed)
			r.Get("/disputes/{id}", cfg.Disputes.GetDispute)
			r.Post("/disputes/{id}/actions", cfg.Disputes.ReviewDispute)
		})
	})

	return r
}
