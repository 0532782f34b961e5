package remoteapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avkudryashov/outreach-gateway/internal/models"
)

// FetchUser запрашивает профиль аутентифицированного пользователя.
// Ответ 401 возвращается как ErrUnauthorized.
func (c *Client) FetchUser(ctx context.Context, tokenStr string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", tokenStr, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyToken подтверждает токен, полученный через OAuth-редирект.
// Вызывается оппортунистически: неудача не отменяет вход, но логируется.
func (c *Client) VerifyToken(ctx context.Context, tokenStr string) error {
	body := map[string]string{"token": tokenStr}
	return c.do(ctx, http.MethodPost, "/api/auth/verify-token", "", body, nil)
}

// ExchangeSession обменивает сессионный cookie провайдера OAuth на bearer-токен.
// Используется как fallback, когда редирект не принёс токен в параметрах URL.
func (c *Client) ExchangeSession(ctx context.Context, cookieHeader string) (string, error) {
	const op = "remoteapi.ExchangeSession"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/exchange", nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Cookie", cookieHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %w", op, &APIError{Code: resp.StatusCode, Message: "session exchange failed"})
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return out.Token, nil
}
