// Package planlist реализует HTTP-обработчик экрана тарифов.
//
// При каждой загрузке экрана заброшенный отложенный заказ отбрасывается
// безусловно, независимо от исхода оплаты. Состояние кнопки каждого тарифа
// вычисляется сравнением ранга тарифа с рангом текущего тарифа пользователя.
package planlist

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
	"github.com/avkudryashov/outreach-gateway/internal/plans"
	"github.com/avkudryashov/outreach-gateway/internal/session"
)

// Provider описывает интерфейс сессионного провайдера.
type Provider interface {
	Current(ctx context.Context, sid string) (*models.User, error)
	Resume(ctx context.Context, sid string) (*models.User, error)
}

// Flow описывает используемую часть потока покупки.
type Flow interface {
	CleanupStale(ctx context.Context, sid string) error
}

// PlanView — тариф вместе с состоянием его кнопки для текущего пользователя.
type PlanView struct {
	plans.Plan
	ButtonState plans.ButtonState `json:"button_state"`
}

// Handler обрабатывает запросы экрана тарифов.
type Handler struct {
	log      *slog.Logger
	provider Provider
	flow     Flow
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, provider Provider, flow Flow) *Handler {
	return &Handler{log: log, provider: provider, flow: flow}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Возвращает тарифы с состоянием кнопок для текущего пользователя и отбрасывает заброшенный отложенный заказ.
// @Tags Plans
// @Produce  json
// @Success 200 {object} response.Response "Список тарифов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /api/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plans.list"
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

	if err := h.flow.CleanupStale(r.Context(), sid); err != nil {
		// Неудачная уборка не мешает показать каталог.
		log.Warn("failed to cleanup stale pending order", sl.Err(err))
	}

	user, err := h.provider.Current(r.Context(), sid)
	if errors.Is(err, session.ErrNoUser) {
		user, err = h.provider.Resume(r.Context(), sid)
	}
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	currentPlan := ""
	if user != nil {
		currentPlan = user.CurrentPlan
	}

	catalog := plans.All()
	views := make([]PlanView, 0, len(catalog))
	for _, p := range catalog {
		views = append(views, PlanView{Plan: p, ButtonState: plans.ButtonFor(p, currentPlan)})
	}

	render.JSON(w, r, response.OKWithData(views))
}
