// Package middlewarectx содержит HTTP middleware шлюза: выдачу сессионного
// cookie, маршрутные стражи для аутентифицированных и административных
// маршрутов и ограничение частоты запросов.
//
// Стражи читают токен заново из хранилища сессий на каждом запросе, а не из
// копии в памяти: выход из системы в одной вкладке виден следующему чтению
// в любой другой.
package middlewarectx

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// SID — ключ для идентификатора клиентской сессии в контексте.
	SID Key = "sid"
	// User — ключ для идентификатора пользователя (subject токена) в контексте.
	User Key = "user"
	// Role — ключ для роли пользователя в контексте.
	Role Key = "role"
)
