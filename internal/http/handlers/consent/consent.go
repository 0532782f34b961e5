// Package consent реализует HTTP-обработчики одноразового флага согласия.
// Флаг хранится в сессии и никогда не сбрасывается обратно в false.
package consent

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/http/response"
	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
)

// Store описывает используемую часть хранилища сессий.
type Store interface {
	Consent(ctx context.Context, sid string) (bool, error)
	SetConsent(ctx context.Context, sid string) error
}

// ShowHandler возвращает текущее значение флага согласия.
type ShowHandler struct {
	log   *slog.Logger
	store Store
}

// NewShow создает новый экземпляр ShowHandler.
func NewShow(log *slog.Logger, store Store) *ShowHandler {
	return &ShowHandler{log: log, store: store}
}

// ServeHTTP godoc
// @Summary Флаг согласия
// @Tags Consent
// @Produce  json
// @Success 200 {object} response.Response "Текущее значение флага"
// @Router /api/consent [get]
func (h *ShowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.consent.show"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid, ok := middlewarectx.SessionIDFromContext(r.Context())
	if !ok {
		// Без cookie сессии согласие точно ещё не давалось.
		render.JSON(w, r, response.OKWithData(map[string]bool{"accepted": false}))
		return
	}

	accepted, err := h.store.Consent(r.Context(), sid)
	if err != nil {
		log.Error("failed to read consent flag", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]bool{"accepted": accepted}))
}

// AcceptHandler выставляет флаг согласия.
type AcceptHandler struct {
	log   *slog.Logger
	store Store
}

// NewAccept создает новый экземпляр AcceptHandler.
func NewAccept(log *slog.Logger, store Store) *AcceptHandler {
	return &AcceptHandler{log: log, store: store}
}

// ServeHTTP godoc
// @Summary Принять согласие
// @Description Выставляет флаг согласия для текущей сессии. Повторный вызов безвреден.
// @Tags Consent
// @Produce  json
// @Success 200 {object} response.Response "Флаг выставлен"
// @Router /api/consent [post]
func (h *AcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.consent.accept"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid, ok := middlewarectx.SessionIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("no session"))
		return
	}

	if err := h.store.SetConsent(r.Context(), sid); err != nil {
		log.Error("failed to set consent flag", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("consent accepted")
	render.JSON(w, r, response.OK())
}
