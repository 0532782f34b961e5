// Package token реализует разбор полезной нагрузки JWT токена без проверки подписи.
//
// Шлюз не владеет секретным ключом удалённого API и поэтому физически не может
// проверить подпись токена. Декодирование используется только для чтения срока
// действия и роли пользователя; подлинность токена повторно проверяет удалённый
// API на каждом защищённом запросе.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims описывает полезную нагрузку токена, выданного удалённым API.
type Claims struct {
	Name                 string `json:"name,omitempty"`  // Имя пользователя
	Email                string `json:"email,omitempty"` // Электронная почта
	Role                 string `json:"role,omitempty"`  // Роль пользователя, admin или user
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, Subject и пр.)
}

// Decode разбирает полезную нагрузку токена без проверки подписи.
//
// Некорректный токен (не три сегмента, битый base64, невалидный JSON)
// возвращает ошибку; вызывающая сторона обязана трактовать её так же,
// как отсутствие токена.
func Decode(tokenStr string) (*Claims, error) {
	const op = "token.Decode"
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}

// Expired сообщает, истёк ли срок действия токена на момент now.
// Токен без поля exp считается истёкшим.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.ExpiresAt.Time)
}
