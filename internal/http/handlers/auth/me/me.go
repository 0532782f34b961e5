// Package me реализует HTTP-обработчик восстановления сессии.
//
// Обработчик повторяет поведение клиентского приложения при старте: при наличии
// токена профиль запрашивается заново у удалённого API; любая неудача очищает
// учётные данные, и клиент считается не вошедшим.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/http/response"
	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/models"
)

// Provider описывает интерфейс сессионного провайдера.
type Provider interface {
	Resume(ctx context.Context, sid string) (*models.User, error)
}

// Handler обрабатывает запросы профиля текущего пользователя.
type Handler struct {
	log      *slog.Logger
	provider Provider
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{log: log, provider: provider}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Заново запрашивает профиль у удалённого API. При невалидном токене сессия очищается.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Сессия истекла"
// @Router /api/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
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

	user, err := h.provider.Resume(r.Context(), sid)
	if err != nil {
		log.Error("failed to resume session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if user == nil {
		// Токена нет или он отвергнут удалённым API; учётные данные уже очищены.
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("session expired"))
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
