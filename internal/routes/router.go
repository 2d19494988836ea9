package routes

import (
	"net/http"
	"time"

	"clubhouse/internal/api"
	"clubhouse/internal/config"
	"clubhouse/internal/logging"
	"clubhouse/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(cfg *config.Config, deps *api.Dependencies, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.InFlightMiddleware(deps.Metrics))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(deps.Repo.Stats, deps.Redis, upSince))
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))

	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMinute)

	RegisterUIRoutes(r, deps, loginLimiter)
	RegisterAPIRoutes(r, deps)

	return r
}
