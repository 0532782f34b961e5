// Package analytics реализует HTTP-обработчик сводки по кампаниям пользователя.
package analytics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/http/response"
	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/models"
	"github.com/avkudryashov/outreach-gateway/internal/remoteapi"
)

// Store описывает используемую часть хранилища сессий.
type Store interface {
	Token(ctx context.Context, sid string) (string, bool, error)
	Clear(ctx context.Context, sid string) error
}

// AnalyticsClient описывает вызов удалённого API для получения сводки.
type AnalyticsClient interface {
	AnalyticsSummary(ctx context.Context, tokenStr string) (*models.AnalyticsSummary, error)
}

// Handler обрабатывает запросы аналитической сводки.
type Handler struct {
	log   *slog.Logger
	store Store
	api   AnalyticsClient
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Store, api AnalyticsClient) *Handler {
	return &Handler{log: log, store: store, api: api}
}

// ServeHTTP godoc
// @Summary Сводка по кампаниям
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} response.Response "Сводка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Удалённый API недоступен"
// @Router /api/analytics/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.analytics"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid, ok := middlewarectx.SessionIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	tokenStr, found, err := h.store.Token(r.Context(), sid)
	if err != nil || !found {
		if err != nil {
			log.Error("failed to read token", sl.Err(err))
		}
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	summary, err := h.api.AnalyticsSummary(r.Context(), tokenStr)
	if err != nil {
		if errors.Is(err, remoteapi.ErrUnauthorized) {
			// Удалённый API отверг токен: очищаем учётные данные сессии.
			if clearErr := h.store.Clear(r.Context(), sid); clearErr != nil {
				log.Error("failed to clear session", sl.Err(clearErr))
			}
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("session expired"))
			return
		}
		log.Error("failed to fetch analytics summary", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not fetch analytics"))
		return
	}

	render.JSON(w, r, response.OKWithData(summary))
}
