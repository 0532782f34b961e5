package middlewarectx

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avkudryashov/outreach-gateway/internal/config"
)

// SessionID возвращает middleware, гарантирующий каждому клиенту сессионный
// cookie. Значение — случайный UUID; оно лишь адресует состояние сессии
// в хранилище и само по себе ничего не удостоверяет.
func SessionID(cfg config.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if c, err := r.Cookie(cfg.CookieName); err == nil && c.Value != "" {
				sid = c.Value
			} else {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sid,
					Path:     "/",
					Expires:  time.Now().Add(cfg.TTL),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), SID, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext возвращает идентификатор сессии из контекста запроса.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(SID).(string)
	return sid, ok && sid != ""
}
