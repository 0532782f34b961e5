// Package oauthcallback реализует HTTP-обработчик возврата с OAuth-провайдера.
//
// Токен ищется в query-параметрах token, access_token и jwt (в этом порядке);
// если его нет, выполняется обмен сессионного cookie провайдера на токен.
// Подтверждение токена через удалённый API выполняется оппортунистически:
// его неудача логируется, но вход не отменяет.
package oauthcallback

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/models"
)

// Provider описывает интерфейс сессионного провайдера.
type Provider interface {
	Login(ctx context.Context, sid, tokenStr string) (*models.User, error)
}

// AuthClient описывает используемые вызовы удалённого API.
type AuthClient interface {
	VerifyToken(ctx context.Context, tokenStr string) error
	ExchangeSession(ctx context.Context, cookieHeader string) (string, error)
}

// Handler обрабатывает возврат с OAuth-провайдера.
type Handler struct {
	log      *slog.Logger
	provider Provider
	api      AuthClient
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, provider Provider, api AuthClient) *Handler {
	return &Handler{log: log, provider: provider, api: api}
}

// tokenFromQuery достаёт токен из query-параметров редиректа.
func tokenFromQuery(r *http.Request) string {
	for _, name := range []string{"token", "access_token", "jwt"} {
		if v := r.URL.Query().Get(name); v != "" {
			return v
		}
	}
	return ""
}

// ServeHTTP godoc
// @Summary Возврат с OAuth-провайдера
// @Description Сохраняет токен из параметров редиректа (или обменивает cookie на токен) и ведёт на /dashboard.
// @Tags Auth
// @Success 302 "Редирект на /dashboard либо /login при неудаче"
// @Router /api/auth/callback [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.oauthcallback"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid, ok := middlewarectx.SessionIDFromContext(r.Context())
	if !ok {
		log.Error("session id not found in context")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	tokenStr := tokenFromQuery(r)
	if tokenStr == "" {
		exchanged, err := h.api.ExchangeSession(r.Context(), r.Header.Get("Cookie"))
		if err != nil {
			log.Error("session exchange failed", sl.Err(err))
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		tokenStr = exchanged
	}

	if err := h.api.VerifyToken(r.Context(), tokenStr); err != nil {
		log.Warn("opportunistic token verification failed", sl.Err(err))
	}

	if _, err := h.provider.Login(r.Context(), sid, tokenStr); err != nil {
		log.Error("login after oauth callback failed", sl.Err(err))
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	log.Info("oauth login success")
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
