package models

import "time"

// PendingOrder связывает локально начатую покупку тарифа с внешней платёжной
// сессией, ожидающей подтверждения. Запись переживает редирект браузера
// на платёжный виджет и обратно.
type PendingOrder struct {
	OrderID   string    `json:"order_id"`   // Идентификатор заказа в биллинге
	PlanID    string    `json:"plan_id"`    // Идентификатор выбранного тарифа
	CreatedAt time.Time `json:"created_at"` // Момент создания заказа
}

// Stale сообщает, считается ли заказ заброшенным на момент now.
// Заброшенный заказ отбрасывается без каких-либо сетевых вызовов.
func (o *PendingOrder) Stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(o.CreatedAt) > ttl
}
