// Package orderverify реализует HTTP-обработчик страницы статуса платежа.
//
// Браузер возвращается с платёжного виджета на адрес возврата с order_id
// в query-параметре; обработчик запускает проверку платежа. Защита от дублей
// действует только в пределах процесса: повторная загрузка страницы статуса
// запускает новую проверку.
package orderverify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/avkudryashov/outreach-gateway/internal/checkout"
	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/http/response"
	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/remoteapi"
)

// Flow описывает используемую часть потока покупки.
type Flow interface {
	ConfirmReturn(ctx context.Context, sid, orderID, orderToken string) (*checkout.Result, error)
}

// Store описывает используемую часть хранилища сессий.
type Store interface {
	Clear(ctx context.Context, sid string) error
}

// Handler обрабатывает запросы страницы статуса платежа.
type Handler struct {
	log   *slog.Logger
	flow  Flow
	store Store
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, flow Flow, store Store) *Handler {
	return &Handler{log: log, flow: flow, store: store}
}

// ServeHTTP godoc
// @Summary Проверка платежа после возврата с виджета
// @Description Проверяет платёж по order_id из query-параметра. Успех удаляет отложенный заказ и ведёт на /dashboard.
// @Tags Plans
// @Produce  json
// @Param order_id query string true "Идентификатор заказа"
// @Success 200 {object} response.Response "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Отсутствует order_id"
// @Failure 409 {object} response.ErrorResponse "Проверка уже выполняется"
// @Failure 410 {object} response.ErrorResponse "Заказ заброшен"
// @Failure 502 {object} response.ErrorResponse "Платёж не подтверждён"
// @Router /api/plans/payment-status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.orderverify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("order_id is required"))
		return
	}
	orderToken := r.URL.Query().Get("order_token")

	sid, ok := middlewarectx.SessionIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.flow.ConfirmReturn(r.Context(), sid, orderID, orderToken)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrVerifyInFlight):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("verification already in progress"))
		case errors.Is(err, checkout.ErrOrderStale):
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("order has expired, please start over"))
		case errors.Is(err, remoteapi.ErrUnauthorized):
			// Удалённый API отверг токен: очищаем учётные данные сессии.
			if clearErr := h.store.Clear(r.Context(), sid); clearErr != nil {
				log.Error("failed to clear session", sl.Err(clearErr))
			}
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		default:
			log.Error("payment verification failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error(userMessage(err)))
		}
		return
	}

	log.Info("payment verified", slog.String("order_id", orderID))
	render.JSON(w, r, response.OKWithData(result))
}

// userMessage достаёт сообщение сервера из ошибки удалённого API,
// иначе возвращает общий текст.
func userMessage(err error) string {
	var apiErr *remoteapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "payment verification failed"
}
