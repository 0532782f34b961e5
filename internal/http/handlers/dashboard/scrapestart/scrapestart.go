// Package scrapestart реализует HTTP-обработчик запуска задачи скрейпинга лидов.
package scrapestart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

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

// ScraperClient описывает вызов удалённого API для запуска задачи.
type ScraperClient interface {
	CreateScrapeJob(ctx context.Context, tokenStr string, req models.ScrapeJobRequest) (*models.ScrapeJob, error)
}

// Handler обрабатывает запросы запуска задач скрейпинга.
type Handler struct {
	log      *slog.Logger
	store    Store
	api      ScraperClient
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Store, api ScraperClient) *Handler {
	return &Handler{
		log:      log,
		store:    store,
		api:      api,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запустить задачу скрейпинга
// @Description Валидирует параметры и создаёт задачу скрейпинга на удалённом API.
// @Tags Dashboard
// @Accept  json
// @Produce  json
// @Param request body models.ScrapeJobRequest true "Параметры задачи"
// @Success 200 {object} response.Response "Созданная задача"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Удалённый API недоступен"
// @Router /api/scraper/jobs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.scrapestart"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ScrapeJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
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

	job, err := h.api.CreateScrapeJob(r.Context(), tokenStr, req)
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
		log.Error("failed to create scrape job", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not create scrape job"))
		return
	}

	log.Info("scrape job created", slog.String("job_id", job.ID))
	render.JSON(w, r, response.OKWithData(job))
}
