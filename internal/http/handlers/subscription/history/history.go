// Package history реализует HTTP-обработчик истории подписок пользователя.
package history

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
	SubscriptionHistory(ctx context.Context, tokenStr string) ([]models.SubscriptionRecord, error)
}

// Handler обрабатывает запросы истории подписок.
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
// @Summary История подписок
// @Description Возвращает список прошлых подписок пользователя.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} response.Response "Список записей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Удалённый API недоступен"
// @Router /api/subscription/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.history"
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

	records, err := h.api.SubscriptionHistory(r.Context(), tokenStr)
	if err != nil {
		if errors.Is(err, remoteapi.ErrUnauthorized) {
			if clearErr := h.store.Clear(r.Context(), sid); clearErr != nil {
				log.Error("failed to clear session", sl.Err(clearErr))
			}
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("session expired"))
			return
		}
		log.Error("failed to fetch subscription history", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not fetch subscription history"))
		return
	}

	render.JSON(w, r, response.OKWithData(records))
}
