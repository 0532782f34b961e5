package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/lib/token"
)

// TokenReader описывает чтение токена из хранилища сессий.
type TokenReader interface {
	Token(ctx context.Context, sid string) (string, bool, error)
}

// redirectToLogin отправляет клиента на страницу входа, сохраняя исходно
// запрошенный адрес для возврата после входа.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login?from=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}

// RequireAuth возвращает middleware, пропускающий только запросы с валидным
// токеном в сессии.
//
// Отсутствующий, нечитаемый или истёкший токен ведёт на /login; ошибки
// декодирования трактуются как отсутствие токена и никогда не поднимаются
// выше. Подпись токена не проверяется — подлинность подтверждает удалённый
// API на каждом проксируемом запросе.
func RequireAuth(store TokenReader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAuth"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			sid, ok := SessionIDFromContext(r.Context())
			if !ok {
				log.Warn("no session cookie")
				redirectToLogin(w, r)
				return
			}

			tokenStr, found, err := store.Token(r.Context(), sid)
			if err != nil {
				log.Error("failed to read token from session store", sl.Err(err))
				redirectToLogin(w, r)
				return
			}
			if !found {
				redirectToLogin(w, r)
				return
			}

			claims, err := token.Decode(tokenStr)
			if err != nil {
				log.Warn("undecodable token", sl.Err(err))
				redirectToLogin(w, r)
				return
			}
			if claims.Expired(time.Now()) {
				log.Info("token expired")
				redirectToLogin(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.Subject)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin возвращает middleware, пропускающий только администраторов.
// Ставится после RequireAuth. Аутентифицированный не-администратор
// отправляется на главную, а не на /login.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(Role).(string)
			if role != "admin" {
				log.Warn("non-admin access to admin route",
					slog.String("request_id", middleware.GetReqID(r.Context())))
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
