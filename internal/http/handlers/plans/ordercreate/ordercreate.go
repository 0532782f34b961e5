// Package ordercreate реализует HTTP-обработчик создания заказа на тариф.
//
// Обработчик проверяет выбор локально (ранг тарифа, регион) до любого сетевого
// вызова, затем делегирует создание заказа потоку покупки и возвращает данные
// для встроенного платёжного виджета.
package ordercreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/avkudryashov/outreach-gateway/internal/checkout"
	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/http/response"
	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/models"
	"github.com/avkudryashov/outreach-gateway/internal/session"
)

// Request — структура входных данных для создания заказа.
type Request struct {
	PlanID string `json:"plan_id" validate:"required"`
	Region string `json:"region" validate:"required,oneof=IN ROW"`
}

// Flow описывает используемую часть потока покупки.
type Flow interface {
	Start(ctx context.Context, sid string, user *models.User, planID, region string) (*checkout.Session, error)
}

// Provider описывает интерфейс сессионного провайдера.
type Provider interface {
	Current(ctx context.Context, sid string) (*models.User, error)
}

// Handler обрабатывает запросы создания заказа.
type Handler struct {
	log      *slog.Logger
	flow     Flow
	provider Provider
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, flow Flow, provider Provider) *Handler {
	return &Handler{
		log:      log,
		flow:     flow,
		provider: provider,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать заказ на тариф
// @Description Создает заказ в биллинге и возвращает платёжную сессию для встроенного виджета.
// @Tags Plans
// @Accept  json
// @Produce  json
// @Param request body Request true "Выбранный тариф и регион"
// @Success 200 {object} response.Response "Платёжная сессия"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Тариф недоступен для покупки"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка биллинга"
// @Router /api/plans/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.ordercreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	user, err := h.provider.Current(r.Context(), sid)
	if err != nil {
		if errors.Is(err, session.ErrNoUser) {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		log.Error("failed to load user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	sess, err := h.flow.Start(r.Context(), sid, user, req.PlanID, req.Region)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrPlanUnknown):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown plan"))
		case errors.Is(err, checkout.ErrPlanLocked):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("plan is not available for purchase"))
		default:
			log.Error("failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not create order"))
		}
		return
	}

	log.Info("order created", slog.String("order_id", sess.OrderID))
	render.JSON(w, r, response.OKWithData(sess))
}
