package mailsender

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avkudryashov/outreach-gateway/internal/config"
	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/models"
	"github.com/avkudryashov/outreach-gateway/internal/remoteapi"
	"github.com/avkudryashov/outreach-gateway/internal/session"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Token(ctx context.Context, sid string) (string, bool, error) {
	args := m.Called(ctx, sid)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *StoreMock) Clear(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}

type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) SendMailCampaign(ctx context.Context, tokenStr string, campaign models.MailCampaign) (*models.CampaignReceipt, error) {
	args := m.Called(ctx, tokenStr, campaign)
	receipt, _ := args.Get(0).(*models.CampaignReceipt)
	return receipt, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestMailSenderHandler_ServeHTTP(t *testing.T) {
	validCampaign := models.MailCampaign{
		Subject:    "Launch",
		Body:       "Hello",
		FromName:   "Acme",
		Recipients: []string{"a@example.com", "b@example.com"},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(s *StoreMock, a *SenderMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "успешная отправка",
			requestBody: validCampaign,
			setupMocks: func(s *StoreMock, a *SenderMock) {
				s.On("Token", mock.Anything, "sid-1").Return("tok", true, nil).Once()
				a.On("SendMailCampaign", mock.Anything, "tok", validCampaign).
					Return(&models.CampaignReceipt{CampaignID: "cmp-1", Accepted: 2}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// Ошибка валидации не должна приводить к сетевому вызову.
			name: "невалидный адрес получателя",
			requestBody: models.MailCampaign{
				Subject:    "Launch",
				Body:       "Hello",
				FromName:   "Acme",
				Recipients: []string{"not-an-email"},
			},
			setupMocks:     func(s *StoreMock, a *SenderMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "пустой список получателей",
			requestBody: models.MailCampaign{
				Subject:  "Launch",
				Body:     "Hello",
				FromName: "Acme",
			},
			setupMocks:     func(s *StoreMock, a *SenderMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Recipients is a required field",
		},
		{
			name:        "сессия без токена",
			requestBody: validCampaign,
			setupMocks: func(s *StoreMock, a *SenderMock) {
				s.On("Token", mock.Anything, "sid-1").Return("", false, nil).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:        "токен отвергнут удалённым API",
			requestBody: validCampaign,
			setupMocks: func(s *StoreMock, a *SenderMock) {
				s.On("Token", mock.Anything, "sid-1").Return("tok", true, nil).Once()
				a.On("SendMailCampaign", mock.Anything, "tok", validCampaign).
					Return(nil, remoteapi.ErrUnauthorized).Once()
				s.On("Clear", mock.Anything, "sid-1").Return(nil).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "session expired",
		},
		{
			name:        "сообщение сервера пробрасывается пользователю",
			requestBody: validCampaign,
			setupMocks: func(s *StoreMock, a *SenderMock) {
				s.On("Token", mock.Anything, "sid-1").Return("tok", true, nil).Once()
				a.On("SendMailCampaign", mock.Anything, "tok", validCampaign).
					Return(nil, &remoteapi.APIError{Code: http.StatusForbidden, Message: "daily limit reached"}).Once()
			},
			wantStatusCode: http.StatusBadGateway,
			wantError:      "daily limit reached",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storeMock := new(StoreMock)
			senderMock := new(SenderMock)
			tt.setupMocks(storeMock, senderMock)

			handler := New(newNoopLogger(), storeMock, senderMock)

			bodyBytes, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/mail/send", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			ctx = context.WithValue(ctx, middlewarectx.SID, "sid-1")
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatusCode == http.StatusOK {
				assert.Equal(t, "OK", got["status"])
			}

			storeMock.AssertExpectations(t)
			senderMock.AssertExpectations(t)
		})
	}
}

// Токен, отвергнутый удалённым API, должен исчезнуть из хранилища:
// иначе сессия остаётся допущенной и каждый следующий запрос снова получает 401.
func TestMailSenderHandler_ClearsStoredTokenOn401(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	store, err := session.NewStore(context.Background(),
		config.RedisConnection{Address: mr.Addr()}, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, "sid-1", "revoked-token"))

	senderMock := new(SenderMock)
	senderMock.On("SendMailCampaign", mock.Anything, "revoked-token", mock.Anything).
		Return(nil, remoteapi.ErrUnauthorized).Once()

	handler := New(newNoopLogger(), store, senderMock)

	bodyBytes, err := json.Marshal(models.MailCampaign{
		Subject:    "Launch",
		Body:       "Hello",
		FromName:   "Acme",
		Recipients: []string{"a@example.com"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/mail/send", bytes.NewReader(bodyBytes))
	reqCtx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	reqCtx = context.WithValue(reqCtx, middlewarectx.SID, "sid-1")
	req = req.WithContext(reqCtx)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, found, err := store.Token(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found, "токен должен быть удалён после 401 от удалённого API")

	senderMock.AssertExpectations(t)
}
