package models

import "time"

// SubscriptionInfo описывает активную подписку пользователя.
type SubscriptionInfo struct {
	PlanID    string     `json:"plan_id"`              // Идентификатор тарифа
	PlanName  string     `json:"plan_name"`            // Название тарифа
	Status    string     `json:"status"`               // Статус подписки: active, expired, canceled
	StartDate *time.Time `json:"start_date,omitempty"` // Дата начала подписки
	EndDate   *time.Time `json:"end_date,omitempty"`   // Дата окончания подписки
}

// SubscriptionStatus — снимок состояния подписки, запрашиваемый по требованию.
// Никогда не кешируется дольше времени обработки одного запроса.
type SubscriptionStatus struct {
	HasActiveSubscription bool              `json:"has_active_subscription"`
	CurrentPlan           string            `json:"current_plan"`
	Subscription          *SubscriptionInfo `json:"subscription,omitempty"`
}

// SubscriptionRecord — запись истории подписок пользователя.
type SubscriptionRecord struct {
	OrderID   string     `json:"order_id"`
	PlanName  string     `json:"plan_name"`
	Amount    int        `json:"amount"`
	Currency  string     `json:"currency"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}
