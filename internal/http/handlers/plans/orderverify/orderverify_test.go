package orderverify

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

	"github.com/avkudryashov/outreach-gateway/internal/checkout"
	"github.com/avkudryashov/outreach-gateway/internal/http/middlewarectx"
	"github.com/avkudryashov/outreach-gateway/internal/remoteapi"
)

type FlowMock struct {
	mock.Mock
}

func (m *FlowMock) ConfirmReturn(ctx context.Context, sid, orderID, orderToken string) (*checkout.Result, error) {
	args := m.Called(ctx, sid, orderID, orderToken)
	result, _ := args.Get(0).(*checkout.Result)
	return result, args.Error(1)
}

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Clear(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestOrderVerifyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockResult     *checkout.Result
		mockErr        error
		wantClear      bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "успешная проверка",
			target:         "/api/plans/payment-status?order_id=ORD123&order_token=tok",
			mockResult:     &checkout.Result{RedirectTo: "/dashboard"},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "отсутствует order_id",
			target:         "/api/plans/payment-status",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "order_id is required",
		},
		{
			name:           "проверка уже выполняется",
			target:         "/api/plans/payment-status?order_id=ORD123",
			mockErr:        checkout.ErrVerifyInFlight,
			wantStatusCode: http.StatusConflict,
			wantError:      "verification already in progress",
		},
		{
			name:           "заказ заброшен",
			target:         "/api/plans/payment-status?order_id=ORD123",
			mockErr:        checkout.ErrOrderStale,
			wantStatusCode: http.StatusGone,
			wantError:      "order has expired, please start over",
		},
		{
			name:           "платёж отклонён с сообщением сервера",
			target:         "/api/plans/payment-status?order_id=ORD123",
			mockErr:        &remoteapi.APIError{Code: http.StatusPaymentRequired, Message: "payment declined"},
			wantStatusCode: http.StatusBadGateway,
			wantError:      "payment declined",
		},
		{
			name:           "токен отвергнут удалённым API",
			target:         "/api/plans/payment-status?order_id=ORD123",
			mockErr:        remoteapi.ErrUnauthorized,
			wantClear:      true,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flowMock := new(FlowMock)
			storeMock := new(StoreMock)
			if tt.mockResult != nil || tt.mockErr != nil {
				flowMock.On("ConfirmReturn", mock.Anything, "sid-1", "ORD123", mock.Anything).
					Return(tt.mockResult, tt.mockErr).Once()
			}
			if tt.wantClear {
				storeMock.On("Clear", mock.Anything, "sid-1").Return(nil).Once()
			}

			handler := New(newNoopLogger(), flowMock, storeMock)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
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
			} else {
				assert.Equal(t, "OK", got["status"])
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "/dashboard", data["redirect_to"])
			}

			flowMock.AssertExpectations(t)
			storeMock.AssertExpectations(t)
		})
	}
}
