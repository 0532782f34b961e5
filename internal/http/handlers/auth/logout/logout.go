// Package logout реализует HTTP-обработчик выхода из системы.
// Выход очищает учётные данные сессии синхронно и не делает сетевых вызовов.
package logout

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

// Provider описывает интерфейс сессионного провайдера.
type Provider interface {
	Logout(ctx context.Context, sid string) error
}

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log      *slog.Logger
	provider Provider
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{log: log, provider: provider}
}

// ServeHTTP godoc
// @Summary Выход из системы
// @Description Удаляет токен и закешированный профиль текущей сессии.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response
// @Router /api/auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid, ok := middlewarectx.SessionIDFromContext(r.Context())
	if !ok {
		// Нет сессии — нечего очищать, выход уже состоялся.
		render.JSON(w, r, response.OK())
		return
	}

	if err := h.provider.Logout(r.Context(), sid); err != nil {
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("logout success")
	render.JSON(w, r, response.OK())
}
