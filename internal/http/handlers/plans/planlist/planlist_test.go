package planlist

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/models"
	"github.com/avkudryashov/outreach-gateway/internal/session"
)

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Current(ctx context.Context, sid string) (*models.User, error) {
	args := m.Called(ctx, sid)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *ProviderMock) Resume(ctx context.Context, sid string) (*models.User, error) {
	args := m.Called(ctx, sid)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type FlowMock struct {
	mock.Mock
}

func (m *FlowMock) CleanupStale(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPlanListHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(p *ProviderMock, f *FlowMock)
		// Ожидаемое состояние кнопки по идентификатору тарифа
		wantButtons map[string]string
	}{
		{
			name: "пользователь на тарифе business",
			setupMocks: func(p *ProviderMock, f *FlowMock) {
				f.On("CleanupStale", mock.Anything, "sid-1").Return(nil).Once()
				p.On("Current", mock.Anything, "sid-1").
					Return(&models.User{UID: "uid-1", CurrentPlan: "Business"}, nil).Once()
			},
			wantButtons: map[string]string{
				"free":       "locked",
				"starter":    "locked",
				"business":   "current",
				"enterprise": "upgrade",
			},
		},
		{
			name: "анонимный пользователь видит все кнопки покупки",
			setupMocks: func(p *ProviderMock, f *FlowMock) {
				f.On("CleanupStale", mock.Anything, "sid-1").Return(nil).Once()
				p.On("Current", mock.Anything, "sid-1").Return(nil, session.ErrNoUser).Once()
				p.On("Resume", mock.Anything, "sid-1").Return(nil, nil).Once()
			},
			wantButtons: map[string]string{
				"free":       "current",
				"starter":    "upgrade",
				"business":   "upgrade",
				"enterprise": "upgrade",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providerMock := new(ProviderMock)
			flowMock := new(FlowMock)
			tt.setupMocks(providerMock, flowMock)

			handler := New(newNoopLogger(), providerMock, flowMock)

			req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			ctx = context.WithValue(ctx, middlewarectx.SID, "sid-1")
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)

			var got struct {
				Status string `json:"status"`
				Data   []struct {
					ID          string `json:"id"`
					ButtonState string `json:"button_state"`
				} `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, "OK", got.Status)
			require.Len(t, got.Data, len(tt.wantButtons))

			for _, view := range got.Data {
				assert.Equal(t, tt.wantButtons[view.ID], view.ButtonState,
					"кнопка тарифа %s", view.ID)
			}

			providerMock.AssertExpectations(t)
			flowMock.AssertExpectations(t)
		})
	}
}
