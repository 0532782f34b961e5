package models

// MailCampaign описывает форму массовой email-рассылки.
// Валидация выполняется до любого сетевого вызова: при ошибке
// валидации запрос к удалённому API не отправляется.
type MailCampaign struct {
	Subject    string   `json:"subject" validate:"required,max=200"`             // Тема письма
	Body       string   `json:"body" validate:"required"`                        // Текст письма
	FromName   string   `json:"from_name" validate:"required,max=100"`           // Имя отправителя
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"` // Список адресов получателей
}

// WhatsAppCampaign описывает форму массовой WhatsApp-рассылки.
type WhatsAppCampaign struct {
	Message    string   `json:"message" validate:"required,max=4096"`           // Текст сообщения
	MediaURL   string   `json:"media_url,omitempty" validate:"omitempty,url"`   // Ссылка на вложение
	Recipients []string `json:"recipients" validate:"required,min=1,dive,e164"` // Номера получателей в формате E.164
}

// CampaignReceipt — подтверждение приёма рассылки удалённым API.
type CampaignReceipt struct {
	CampaignID string `json:"campaign_id"`
	Accepted   int    `json:"accepted"` // Сколько получателей принято в очередь
	Rejected   int    `json:"rejected"` // Сколько получателей отклонено
}

// ScrapeJobRequest описывает запрос на запуск задачи скрейпинга.
type ScrapeJobRequest struct {
	Source string `json:"source" validate:"required,oneof=google_maps linkedin yellow_pages"` // Источник данных
	Query  string `json:"query" validate:"required,max=300"`                                  // Поисковый запрос
	Limit  int    `json:"limit" validate:"required,gt=0,lte=1000"`                            // Максимум записей
}

// ScrapeJob — состояние задачи скрейпинга на стороне удалённого API.
type ScrapeJob struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Query     string `json:"query"`
	Status    string `json:"status"` // queued, running, done, failed
	Found     int    `json:"found"`
	ResultURL string `json:"result_url,omitempty"`
}

// AnalyticsSummary — агрегированная сводка по кампаниям пользователя.
type AnalyticsSummary struct {
	EmailsSent     int     `json:"emails_sent"`
	EmailsOpened   int     `json:"emails_opened"`
	MessagesSent   int     `json:"messages_sent"`
	DeliveryRate   float64 `json:"delivery_rate"`
	ActiveScrapers int     `json:"active_scrapers"`
}
