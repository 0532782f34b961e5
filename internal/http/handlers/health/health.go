// Package health реализует проверку живости шлюза.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/avkudryashov/outreach-gateway/internal/http/response"
	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
)

// Pinger описывает проверку соединения с хранилищем сессий.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler обрабатывает запросы проверки живости.
type Handler struct {
	log   *slog.Logger
	store Pinger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Pinger) *Handler {
	return &Handler{log: log, store: store}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Tags Service
// @Produce  json
// @Success 200 {object} response.Response "Шлюз работает"
// @Failure 503 {object} response.ErrorResponse "Хранилище сессий недоступно"
// @Router /healthz [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error("session store unreachable", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("session store unreachable"))
		return
	}

	render.JSON(w, r, response.OK())
}
