// Package gateway собирает и запускает HTTP-шлюз: хранилище сессий,
// клиент удалённого API, сессионный провайдер, платёжный поток и маршруты.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avkudryashov/outreach-gateway/internal/checkout"
	"github.com/avkudryashov/outreach-gateway/internal/config"
	"github.com/avkudryashov/outreach-gateway/internal/metrics"
	"github.com/avkudryashov/outreach-gateway/internal/remoteapi"
	"github.com/avkudryashov/outreach-gateway/internal/session"
)

// App агрегирует зависимости шлюза и управляет их жизненным циклом.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  *session.Store
}

// New создает приложение шлюза: подключается к redis, инициализирует
// клиент удалённого API и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := session.NewStore(ctx, cfg.RedisConnection, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	api := remoteapi.New(cfg.RemoteAPI)
	provider := session.NewProvider(store, api, logger)
	flow := checkout.New(store, api, logger, cfg.Checkout.PendingOrderTTL, cfg.Checkout.ReturnURL)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, store, api, provider, flow, collector, registry)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до остановки контекста
// или ошибки сервера. Остановка контекста приводит к graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.store.Close(); closeErr != nil {
			a.logger.Error("failed to close session store", slog.Any("err", closeErr))
		}
		return err
	}
}
