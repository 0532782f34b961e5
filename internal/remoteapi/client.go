// Package remoteapi реализует единый типизированный клиент удалённого REST API.
//
// Весь доменный функционал шлюза (аутентификация, биллинг, рассылки, скрейперы,
// аналитика) делегируется удалённому API; здесь собраны все обёртки запросов,
// чтобы базовый адрес и подстановка bearer-токена задавались в одном месте.
// Повторов и backoff нет: любая неудача терминальна для действия пользователя.
package remoteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avkudryashov/outreach-gateway/internal/config"
)

// ErrUnauthorized возвращается на любой ответ 401 удалённого API.
// Вызывающая сторона обязана очистить сохранённые учётные данные.
var ErrUnauthorized = errors.New("remoteapi: unauthorized")

// APIError — ошибка удалённого API с HTTP-статусом и сообщением сервера.
type APIError struct {
	Code    int    // HTTP-статус ответа
	Message string // Сообщение сервера либо общий текст
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remoteapi: %d: %s", e.Code, e.Message)
}

// Client — клиент удалённого REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New создает клиент с базовым адресом и таймаутом из конфига.
func New(cfg config.RemoteAPI) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// errorBody — минимальная форма тела ошибки удалённого API.
// Разные конечные точки используют разные ключи.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path, tokenStr string, body, out any) error {
	const op = "remoteapi.do"

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tokenStr != "" {
		req.Header.Set("Authorization", "Bearer "+tokenStr)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errBody errorBody
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		msg := errBody.Error
		if msg == "" {
			msg = errBody.Message
		}
		if msg == "" {
			msg = "request failed"
		}
		return fmt.Errorf("%s: %w", op, &APIError{Code: resp.StatusCode, Message: msg})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
