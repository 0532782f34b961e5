// Package plans содержит статический каталог тарифов и логику сравнения тарифов
// по рангу. Каталог определяется на стороне шлюза; авторитетная запись о тарифе
// и цене живёт на удалённом API и сопоставляется по названию нечётким поиском.
package plans

import (
	"fmt"
	"strings"
)

// Регионы расчёта цены. Для Индии цены указываются в INR, для остальных — в USD.
const (
	RegionIndia   = "IN"
	RegionDefault = "ROW"
)

// Feature описывает пункт из списка возможностей тарифа.
type Feature struct {
	Text       string `json:"text"`       // Описание возможности
	Restricted bool   `json:"restricted"` // Возможность недоступна на этом тарифе
}

// Plan представляет запись каталога тарифов. Каталог неизменяем.
type Plan struct {
	ID       string            `json:"id"`       // Идентификатор тарифа: free, starter, business, enterprise
	Name     string            `json:"name"`     // Отображаемое название
	Rank     int               `json:"rank"`     // Порядковый ранг для сравнения тарифов
	Prices   map[string]int    `json:"prices"`   // Цена за период по регионам
	Currency map[string]string `json:"currency"` // Валюта цены по регионам
	Period   string            `json:"period"`   // Период списания
	Popular  bool              `json:"popular"`  // Отметка «самый популярный»
	Features []Feature         `json:"features"`
}

// ButtonState описывает состояние кнопки тарифа для текущего пользователя.
type ButtonState string

const (
	// ButtonCurrent — тариф уже активен, кнопка отключена.
	ButtonCurrent ButtonState = "current"
	// ButtonLocked — тариф не выше текущего, покупка заблокирована.
	ButtonLocked ButtonState = "locked"
	// ButtonUpgrade — тариф доступен для покупки.
	ButtonUpgrade ButtonState = "upgrade"
)

var catalog = []Plan{
	{
		ID:       "free",
		Name:     "Free",
		Rank:     0,
		Prices:   map[string]int{RegionIndia: 0, RegionDefault: 0},
		Currency: map[string]string{RegionIndia: "INR", RegionDefault: "USD"},
		Period:   "month",
		Features: []Feature{
			{Text: "50 emails per day"},
			{Text: "Basic analytics"},
			{Text: "WhatsApp sender", Restricted: true},
			{Text: "Lead scrapers", Restricted: true},
		},
	},
	{
		ID:       "starter",
		Name:     "Starter",
		Rank:     1,
		Prices:   map[string]int{RegionIndia: 799, RegionDefault: 19},
		Currency: map[string]string{RegionIndia: "INR", RegionDefault: "USD"},
		Period:   "month",
		Features: []Feature{
			{Text: "2000 emails per day"},
			{Text: "WhatsApp sender"},
			{Text: "Basic analytics"},
			{Text: "Lead scrapers", Restricted: true},
		},
	},
	{
		ID:       "business",
		Name:     "Business",
		Rank:     2,
		Prices:   map[string]int{RegionIndia: 1999, RegionDefault: 49},
		Currency: map[string]string{RegionIndia: "INR", RegionDefault: "USD"},
		Period:   "month",
		Popular:  true,
		Features: []Feature{
			{Text: "10000 emails per day"},
			{Text: "WhatsApp sender"},
			{Text: "Lead scrapers"},
			{Text: "Advanced analytics"},
		},
	},
	{
		ID:       "enterprise",
		Name:     "Enterprise",
		Rank:     3,
		Prices:   map[string]int{RegionIndia: 4999, RegionDefault: 129},
		Currency: map[string]string{RegionIndia: "INR", RegionDefault: "USD"},
		Period:   "month",
		Features: []Feature{
			{Text: "Unlimited emails"},
			{Text: "WhatsApp sender"},
			{Text: "Lead scrapers"},
			{Text: "Advanced analytics"},
			{Text: "Dedicated support"},
		},
	},
}

// All возвращает глубокую копию каталога тарифов: вызывающая сторона
// не может изменить цены, валюты или список возможностей каталога.
func All() []Plan {
	out := make([]Plan, len(catalog))
	for i, p := range catalog {
		prices := make(map[string]int, len(p.Prices))
		for k, v := range p.Prices {
			prices[k] = v
		}
		currency := make(map[string]string, len(p.Currency))
		for k, v := range p.Currency {
			currency[k] = v
		}
		features := make([]Feature, len(p.Features))
		copy(features, p.Features)

		p.Prices = prices
		p.Currency = currency
		p.Features = features
		out[i] = p
	}
	return out
}

// ByID возвращает тариф по идентификатору.
func ByID(id string) (*Plan, bool) {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i], true
		}
	}
	return nil, false
}

// RankOf возвращает ранг тарифа по его названию нечётким поиском:
// регистр и крайние пробелы игнорируются, достаточно вхождения названия
// каталога в переданную строку. Неизвестное название трактуется как free.
func RankOf(name string) int {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return 0
	}
	for i := range catalog {
		if strings.Contains(needle, strings.ToLower(catalog[i].Name)) {
			return catalog[i].Rank
		}
	}
	return 0
}

// Amount возвращает цену и валюту тарифа для региона.
// Неизвестный регион считается RegionDefault.
func Amount(planID, region string) (int, string, error) {
	const op = "plans.Amount"
	plan, ok := ByID(planID)
	if !ok {
		return 0, "", fmt.Errorf("%s: unknown plan %q", op, planID)
	}
	if _, ok := plan.Prices[region]; !ok {
		region = RegionDefault
	}
	return plan.Prices[region], plan.Currency[region], nil
}

// ButtonFor вычисляет состояние кнопки тарифа p для пользователя,
// чей текущий тариф называется currentPlan.
//
// Тариф заблокирован, если его ранг не выше ранга текущего тарифа
// и это не сам текущий тариф.
func ButtonFor(p Plan, currentPlan string) ButtonState {
	current := RankOf(currentPlan)
	if p.Rank == current {
		return ButtonCurrent
	}
	if p.Rank < current {
		return ButtonLocked
	}
	return ButtonUpgrade
}
