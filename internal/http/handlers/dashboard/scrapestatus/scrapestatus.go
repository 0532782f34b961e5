// Package scrapestatus реализует HTTP-обработчик чтения состояния задачи скрейпинга.
package scrapestatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
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

// ScraperClient описывает вызов удалённого API для чтения задачи.
type ScraperClient interface {
	ScrapeJob(ctx context.Context, tokenStr, id string) (*models.ScrapeJob, error)
}

// Handler обрабатывает запросы состояния задач скрейпинга.
type Handler struct {
	log   *slog.Logger
	store Store
	api   ScraperClient
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Store, api ScraperClient) *Handler {
	return &Handler{log: log, store: store, api: api}
}

// ServeHTTP godoc
// @Summary Состояние задачи скрейпинга
// @Tags Dashboard
// @Produce  json
// @Param id path string true "Идентификатор задачи"
// @Success 200 {object} response.Response "Задача"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Удалённый API недоступен"
// @Router /api/scraper/jobs/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.scrapestatus"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("job id is required"))
		return
	}

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

	job, err := h.api.ScrapeJob(r.Context(), tokenStr, id)
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
		log.Error("failed to read scrape job", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not read scrape job"))
		return
	}

	render.JSON(w, r, response.OKWithData(job))
}
