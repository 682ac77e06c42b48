package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gigsy2025/gigsy-reconciler/internal/adapter/http/handler"
	"github.com/gigsy2025/gigsy-reconciler/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ReconcileHandler *handler.ReconcileHandler
	HealthHandler    *handler.HealthHandler
	Logging          *middleware.LoggingMiddleware
	Metrics          *middleware.MetricsMiddleware
	Recovery         *middleware.RecoveryMiddleware
	Idempotency      *middleware.IdempotencyMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Recovery != nil {
		r.Use(cfg.Recovery.Wrap)
	}
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1/reconciliation", func(r chi.Router) {
		if cfg.Idempotency != nil {
			r.Use(cfg.Idempotency.Wrap)
		}

		r.Post("/runs", cfg.ReconcileHandler.Run)
		r.Post("/wallets/{id}/emergency", cfg.ReconcileHandler.Emergency)
		r.Get("/health", cfg.HealthHandler.ReconciliationHealth)
	})

	return r
}
