// Package http assembles the chi router from the module handlers.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"univote/internal/platform/metrics"
	"univote/internal/platform/middleware"
)

// Registrar mounts a handler's routes on a router.
type Registrar interface {
	Register(r chi.Router)
}

// AdminRegistrar mounts a handler's administrative routes.
type AdminRegistrar interface {
	RegisterAdmin(r chi.Router)
}

// Config wires the router's collaborators.
type Config struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Validator  middleware.TokenValidator
	AdminToken string

	// Public carries handlers served without a session (election listings,
	// tallies). Authed carries the voter-facing handlers behind session auth.
	// Admin carries the administrative handlers behind the admin token.
	Public []Registrar
	Authed []Registrar
	Admin  []AdminRegistrar
}

// NewRouter builds the full routing tree: shared middleware, health and
// metrics endpoints, then the public, session-authed and admin groups.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Latency(cfg.Metrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(public chi.Router) {
		for _, registrar := range cfg.Public {
			registrar.Register(public)
		}
	})

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth(cfg.Validator, cfg.Logger))
		for _, registrar := range cfg.Authed {
			registrar.Register(authed)
		}
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.RequireAdminToken(cfg.AdminToken, cfg.Logger))
		for _, registrar := range cfg.Admin {
			registrar.RegisterAdmin(admin)
		}
	})

	return r
}
