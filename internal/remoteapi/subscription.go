package remoteapi

import (
	"context"
	"net/http"

	"github.com/avkudryashov/outreach-gateway/internal/models"
)

// CreateOrderRequest — запрос на создание заказа в биллинге.
type CreateOrderRequest struct {
	PlanID   string `json:"plan_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrderResponse — ответ биллинга на создание заказа.
// PaymentSessionID передаётся встроенному платёжному виджету.
type CreateOrderResponse struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
}

// VerifyPaymentResponse — результат проверки платежа по заказу.
type VerifyPaymentResponse struct {
	Success      bool                     `json:"success"`
	Subscription *models.SubscriptionInfo `json:"subscription,omitempty"`
	Error        string                   `json:"error,omitempty"`
}

// CreateOrder создает заказ в биллинге.
func (c *Client) CreateOrder(ctx context.Context, tokenStr string, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/subscription/subscribe", tokenStr, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyPayment проверяет платёж по заказу после возврата с платёжного виджета.
func (c *Client) VerifyPayment(ctx context.Context, tokenStr, orderID, orderToken string) (*VerifyPaymentResponse, error) {
	body := map[string]string{"orderId": orderID}
	if orderToken != "" {
		body["orderToken"] = orderToken
	}
	var out VerifyPaymentResponse
	if err := c.do(ctx, http.MethodPost, "/verify-payment", tokenStr, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscriptionStatus возвращает текущий снимок подписки пользователя.
func (c *Client) SubscriptionStatus(ctx context.Context, tokenStr string) (*models.SubscriptionStatus, error) {
	var out models.SubscriptionStatus
	if err := c.do(ctx, http.MethodGet, "/api/subscription/status", tokenStr, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubscriptionHistory возвращает список прошлых подписок пользователя.
func (c *Client) SubscriptionHistory(ctx context.Context, tokenStr string) ([]models.SubscriptionRecord, error) {
	var out []models.SubscriptionRecord
	if err := c.do(ctx, http.MethodGet, "/subscription-history", tokenStr, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
