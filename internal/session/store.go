// Package session реализует хранение состояния клиентской сессии и сессионный
// провайдер. Store играет роль клиентского localStorage: для каждой сессии
// браузера (cookie sid) в redis лежат токен, закешированный профиль
// пользователя, отложенный заказ и флаг согласия.
//
// Store не выполняет никакой валидации токена: проверка срока действия —
// обязанность вызывающей стороны (см. middlewarectx.RequireAuth).
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avkudryashov/outreach-gateway/internal/config"
	"github.com/avkudryashov/outreach-gateway/internal/models"
)

// Store хранит состояние клиентских сессий в redis.
type Store struct {
	db  *redis.Client
	ttl time.Duration // Время жизни ключей сессии
}

// NewStore создает Store и проверяет соединение с redis.
func NewStore(ctx context.Context, cfg config.RedisConnection, sessionTTL time.Duration) (*Store, error) {
	const op = "session.NewStore"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		Username:     cfg.User,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{db: db, ttl: sessionTTL}, nil
}

// Close закрывает соединение с redis.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping проверяет доступность redis.
func (s *Store) Ping(ctx context.Context) error {
	const op = "session.Store.Ping"
	if err := s.db.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func key(sid, field string) string {
	return "session:" + sid + ":" + field
}

func (s *Store) getJSON(ctx context.Context, k string, result any) (bool, error) {
	const op = "session.Store.getJSON"
	val, err := s.db.Get(ctx, k).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (s *Store) setJSON(ctx context.Context, k string, value any) error {
	const op = "session.Store.setJSON"
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.db.Set(ctx, k, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Token возвращает сохранённый токен сессии, второй результат — найден ли он.
func (s *Store) Token(ctx context.Context, sid string) (string, bool, error) {
	const op = "session.Store.Token"
	val, err := s.db.Get(ctx, key(sid, "token")).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, true, nil
}

// SetToken сохраняет токен сессии.
func (s *Store) SetToken(ctx context.Context, sid, tokenStr string) error {
	const op = "session.Store.SetToken"
	if err := s.db.Set(ctx, key(sid, "token"), tokenStr, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// User возвращает закешированный профиль пользователя.
func (s *Store) User(ctx context.Context, sid string) (*models.User, bool, error) {
	var user models.User
	found, err := s.getJSON(ctx, key(sid, "user"), &user)
	if err != nil || !found {
		return nil, false, err
	}
	return &user, true, nil
}

// SetUser заменяет закешированный профиль целиком.
func (s *Store) SetUser(ctx context.Context, sid string, user *models.User) error {
	return s.setJSON(ctx, key(sid, "user"), user)
}

// Clear удаляет токен и закешированный профиль сессии.
// Отложенный заказ и флаг согласия при этом сохраняются.
func (s *Store) Clear(ctx context.Context, sid string) error {
	const op = "session.Store.Clear"
	if err := s.db.Del(ctx, key(sid, "token"), key(sid, "user")).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PendingOrder возвращает отложенный заказ сессии.
func (s *Store) PendingOrder(ctx context.Context, sid string) (*models.PendingOrder, bool, error) {
	var order models.PendingOrder
	found, err := s.getJSON(ctx, key(sid, "pending_order"), &order)
	if err != nil || !found {
		return nil, false, err
	}
	return &order, true, nil
}

// SetPendingOrder сохраняет отложенный заказ сессии.
func (s *Store) SetPendingOrder(ctx context.Context, sid string, order *models.PendingOrder) error {
	return s.setJSON(ctx, key(sid, "pending_order"), order)
}

// ClearPendingOrder удаляет отложенный заказ сессии.
func (s *Store) ClearPendingOrder(ctx context.Context, sid string) error {
	const op = "session.Store.ClearPendingOrder"
	if err := s.db.Del(ctx, key(sid, "pending_order")).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Consent сообщает, подтверждал ли пользователь одноразовое согласие.
func (s *Store) Consent(ctx context.Context, sid string) (bool, error) {
	const op = "session.Store.Consent"
	_, err := s.db.Get(ctx, key(sid, "consent")).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// SetConsent сохраняет одноразовый флаг согласия.
func (s *Store) SetConsent(ctx context.Context, sid string) error {
	const op = "session.Store.SetConsent"
	if err := s.db.Set(ctx, key(sid, "consent"), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
