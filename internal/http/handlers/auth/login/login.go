// Package login реализует HTTP-обработчик входа по bearer-токену.
//
// Токен выдаёт удалённый API; шлюз сохраняет его в сессию и запрашивает профиль
// пользователя. Сохранение токена происходит синхронно до запроса профиля.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/http/response"
	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/models"
)

// Request — структура входных данных для входа.
type Request struct {
	Token string `json:"token" validate:"required"`
}

// Provider описывает интерфейс сессионного провайдера.
type Provider interface {
	Login(ctx context.Context, sid, tokenStr string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	provider Provider            // Сессионный провайдер
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, provider Provider) *Handler {
	return &Handler{
		log:      log,
		provider: provider,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход по bearer-токену
// @Description Сохраняет токен в сессии и возвращает профиль пользователя.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Bearer-токен, выданный удалённым API"
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Удалённый API недоступен"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
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
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	user, err := h.provider.Login(r.Context(), sid, req.Token)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not fetch user profile"))
		return
	}

	log.Info("login success", slog.String("uid", user.UID))
	render.JSON(w, r, response.OKWithData(user))
}
