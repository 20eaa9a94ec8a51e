package httpadapter

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mesa-admin/internal/auth"
	"mesa-admin/internal/core/port"
	"mesa-admin/internal/metrics"
)

// Handler serves the admin REST API on top of a BackendStore. Every /api
// route except the public tenant branding requires a bearer API key.
type Handler struct {
	store    port.BackendStore
	issuer   *auth.Issuer
	logger   *slog.Logger
	metrics  *metrics.Server
	gatherer prometheus.Gatherer
	now      func() time.Time
	// publicTenant is the tenant whose branding unauthenticated callers see.
	publicTenant string
	router       chi.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records request metrics on m and serves g on /metrics.
func WithMetrics(m *metrics.Server, g prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = m
		h.gatherer = g
	}
}

// WithClock sets the time source used for key expiry and stats defaults.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithPublicTenant names the tenant served by GET /api/tenant/public.
func WithPublicTenant(name string) Option {
	return func(h *Handler) { h.publicTenant = name }
}

// NewHandler creates a handler with all routes configured.
func NewHandler(store port.BackendStore, issuer *auth.Issuer, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		store:        store,
		issuer:       issuer,
		logger:       logger,
		now:          time.Now,
		publicTenant: "demo",
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, h.recoverer)
	if h.metrics != nil {
		r.Use(h.instrument)
	}

	r.Get("/healthz", h.handleHealth)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/tenant/public", h.handlePublicTenant)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			r.Get("/me", h.handleMe)
			r.Get("/tenant", h.handleGetTenant)
			r.With(h.requireRole(ownerOrManager...)).Put("/tenant", h.handleUpdateTenant)

			r.Get("/keys", h.handleListKeys)
			r.With(h.requireRole(ownerOrManager...)).Post("/keys", h.handleCreateKey)
			r.With(h.requireRole(ownerOrManager...)).Delete("/keys/{token}", h.handleRevokeKey)

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", h.handleListCampaigns)
				r.Post("/", h.handleCreateCampaign)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.handleGetCampaign)
					r.Put("/", h.handleUpdateCampaign)
					r.Delete("/", h.handleDeleteCampaign)
					r.Get("/targeting_rules", h.handleListTargetingRules)
					r.Post("/targeting_rules", h.handleReplaceTargetingRules)
					r.Get("/payout_rules", h.handleListPayoutRules)
					r.Post("/payout_rules", h.handleCreatePayoutRule)
					r.Delete("/payout_rules", h.handleDeletePayoutRule)
				})
			})
			r.Get("/targeting-rule-types", h.handleListRuleTypes)

			r.Route("/zones", func(r chi.Router) {
				r.Get("/", h.handleListZones)
				r.Post("/", h.handleCreateZone)
				r.Get("/{id}", h.handleGetZone)
				r.Put("/{id}", h.handleUpdateZone)
				r.Delete("/{id}", h.handleDeleteZone)
			})

			r.Get("/stats", h.handleStats)
			r.Get("/conversions", h.handleListConversions)

			r.Get("/sync/state", h.handleSyncState)
			r.Post("/sync/campaigns/{id}", h.handleSyncCampaign)
			r.Post("/sync/zones/{id}", h.handleSyncZone)
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}
