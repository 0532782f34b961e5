// Package mailsender реализует HTTP-обработчик отправки email-кампании.
//
// Форма кампании валидируется локально; при ошибке валидации сетевой вызов
// не выполняется. Исполнение кампании делегируется удалённому API.
package mailsender

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

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

// Sender описывает вызов удалённого API для отправки кампании.
type Sender interface {
	SendMailCampaign(ctx context.Context, tokenStr string, campaign models.MailCampaign) (*models.CampaignReceipt, error)
}

// Handler обрабатывает запросы отправки email-кампаний.
type Handler struct {
	log      *slog.Logger
	store    Store
	api      Sender
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Store, api Sender) *Handler {
	return &Handler{
		log:      log,
		store:    store,
		api:      api,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отправить email-кампанию
// @Description Валидирует форму кампании и передаёт её на исполнение удалённому API.
// @Tags Dashboard
// @Accept  json
// @Produce  json
// @Param request body models.MailCampaign true "Форма кампании"
// @Success 200 {object} response.Response "Подтверждение приёма"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Удалённый API недоступен"
// @Router /api/mail/send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.mailsender"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var campaign models.MailCampaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(campaign); err != nil {
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

	tokenStr, found, err := h.store.Token(r.Context(), sid)
	if err != nil || !found {
		if err != nil {
			log.Error("failed to read token", sl.Err(err))
		}
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	receipt, err := h.api.SendMailCampaign(r.Context(), tokenStr, campaign)
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
		log.Error("failed to send mail campaign", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error(userMessage(err)))
		return
	}

	log.Info("mail campaign accepted", slog.String("campaign_id", receipt.CampaignID),
		slog.Int("accepted", receipt.Accepted))
	render.JSON(w, r, response.OKWithData(receipt))
}

func userMessage(err error) string {
	var apiErr *remoteapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "could not send campaign"
}
