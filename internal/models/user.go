// Package models содержит доменные структуры шлюза: профиль пользователя,
// отложенный заказ, статус подписки и DTO для запросов к инструментам рассылки.
// Авторитетные записи живут на стороне удалённого API; здесь хранятся только
// их снимки на время клиентской сессии.
package models

import "time"

// User представляет профиль аутентифицированного пользователя.
//
// Профиль принадлежит сессионному провайдеру: обновляется только целиком,
// повторным запросом к удалённому API, частичные изменения не допускаются.
type User struct {
	UID                 string     `json:"uid"`                             // Уникальный идентификатор пользователя
	Name                string     `json:"name"`                            // Отображаемое имя
	Email               string     `json:"email"`                           // Электронная почта
	Role                string     `json:"role"`                            // Роль пользователя, admin или user
	CurrentPlan         string     `json:"current_plan"`                    // Название текущего тарифа
	SubscriptionEndDate *time.Time `json:"subscription_end_date,omitempty"` // Дата окончания оплаченной подписки
}

// IsAdmin сообщает, имеет ли пользователь административную роль.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
