// Package status реализует HTTP-обработчик снимка статуса подписки.
// Снимок запрашивается у удалённого API по требованию и не кешируется.
package status

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

// BillingClient описывает вызов биллинга удалённого API.
type BillingClient interface {
	SubscriptionStatus(ctx context.Context, tokenStr string) (*models.SubscriptionStatus, error)
}

// Handler обрабатывает запросы статуса подписки.
type Handler struct {
	log   *slog.Logger
	store Store
	api   BillingClient
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Store, api BillingClient) *Handler {
	return &Handler{log: log, store: store, api: api}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Возвращает текущий снимок подписки пользователя.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} response.Response "Снимок подписки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Удалённый API недоступен"
// @Router /api/subscription/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"
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
	if err != nil {
		log.Error("failed to read token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if !found {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	snapshot, err := h.api.SubscriptionStatus(r.Context(), tokenStr)
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
		log.Error("failed to fetch subscription status", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not fetch subscription status"))
		return
	}

	render.JSON(w, r, response.OKWithData(snapshot))
}
