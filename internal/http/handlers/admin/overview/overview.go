// Package overview реализует HTTP-обработчик административной сводки.
// Маршрут закрыт стражем RequireAdmin: обычный пользователь сюда не попадает.
package overview

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
	"github.com/avkudryashov/outreach-gateway/internal/remoteapi"
)

// Store описывает используемую часть хранилища сессий.
type Store interface {
	Token(ctx context.Context, sid string) (string, bool, error)
	Clear(ctx context.Context, sid string) error
}

// AdminClient описывает вызов удалённого API для административной сводки.
type AdminClient interface {
	AdminOverview(ctx context.Context, tokenStr string) (map[string]any, error)
}

// Handler обрабатывает запросы административной сводки.
type Handler struct {
	log   *slog.Logger
	store Store
	api   AdminClient
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Store, api AdminClient) *Handler {
	return &Handler{log: log, store: store, api: api}
}

// ServeHTTP godoc
// @Summary Административная сводка
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response "Сводка по всем пользователям"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Удалённый API недоступен"
// @Router /api/admin/overview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.overview"
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

	data, err := h.api.AdminOverview(r.Context(), tokenStr)
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
		log.Error("failed to fetch admin overview", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not fetch admin overview"))
		return
	}

	render.JSON(w, r, response.OKWithData(data))
}
