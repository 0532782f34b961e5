package gateway

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/avkudryashov/outreach-gateway/internal/checkout"
	"github.com/avkudryashov/outreach-gateway/internal/config"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/admin/overview"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/auth/login"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/auth/logout"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/auth/me"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/auth/oauthcallback"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/consent"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/dashboard/analytics"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/dashboard/mailsender"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/dashboard/scrapestart"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/dashboard/scrapestatus"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/dashboard/whatsappsender"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/health"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/plans/ordercreate"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/plans/orderverify"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/plans/planlist"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/subscription/history"
	"github.com/avkudryashov/outreach-gateway/internal/http/handlers/subscription/status"
	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/metrics"
	"github.com/avkudryashov/outreach-gateway/internal/remoteapi"
	"github.com/avkudryashov/outreach-gateway/internal/session"
)

// RegisterRoutes регистрирует все маршруты шлюза.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	store *session.Store, api *remoteapi.Client, provider *session.Provider,
	flow *checkout.Service, collector *metrics.Collector, registry *prometheus.Registry) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(collector.Middleware)
	r.Use(middlewarectx.SessionID(cfg.Session))

	// Открытые конечные точки
	r.Post("/api/auth/login", login.New(logger, provider).ServeHTTP)
	r.Get("/api/auth/callback", oauthcallback.New(logger, provider, api).ServeHTTP)
	r.Post("/api/auth/logout", logout.New(logger, provider).ServeHTTP)
	r.Get("/api/plans", planlist.New(logger, provider, flow).ServeHTTP)
	r.Get("/api/consent", consent.NewShow(logger, store).ServeHTTP)
	r.Post("/api/consent", consent.NewAccept(logger, store).ServeHTTP)

	// Группа с проверкой токена сессии
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RequireAuth(store, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(10), 20))
		r.Get("/api/auth/me", me.New(logger, provider).ServeHTTP)
		r.Post("/api/plans/checkout", ordercreate.New(logger, flow, provider).ServeHTTP)
		r.Get("/api/plans/payment-status", orderverify.New(logger, flow, store).ServeHTTP)
		r.Get("/api/subscription/status", status.New(logger, store, api).ServeHTTP)
		r.Get("/api/subscription/history", history.New(logger, store, api).ServeHTTP)
		r.Post("/api/mail/send", mailsender.New(logger, store, api).ServeHTTP)
		r.Post("/api/whatsapp/send", whatsappsender.New(logger, store, api).ServeHTTP)
		r.Post("/api/scraper/jobs", scrapestart.New(logger, store, api).ServeHTTP)
		r.Get("/api/scraper/jobs/{id}", scrapestatus.New(logger, store, api).ServeHTTP)
		r.Get("/api/analytics/summary", analytics.New(logger, store, api).ServeHTTP)

		// Административные маршруты
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Get("/api/admin/overview", overview.New(logger, store, api).ServeHTTP)
		})
	})

	r.Get("/healthz", health.New(logger, store).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
