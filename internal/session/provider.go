package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/models"
)

// Storage описывает используемую провайдером часть хранилища сессий.
type Storage interface {
	Token(ctx context.Context, sid string) (string, bool, error)
	SetToken(ctx context.Context, sid, tokenStr string) error
	User(ctx context.Context, sid string) (*models.User, bool, error)
	SetUser(ctx context.Context, sid string, user *models.User) error
	Clear(ctx context.Context, sid string) error
}

// ProfileFetcher описывает запрос профиля пользователя у удалённого API.
type ProfileFetcher interface {
	FetchUser(ctx context.Context, tokenStr string) (*models.User, error)
}

// Provider владеет профилем текущего пользователя на протяжении сессии.
// Профиль заменяется только целиком, повторным запросом к удалённому API.
type Provider struct {
	store Storage
	api   ProfileFetcher
	log   *slog.Logger
}

// NewProvider создает новый Provider.
func NewProvider(store Storage, api ProfileFetcher, log *slog.Logger) *Provider {
	return &Provider{store: store, api: api, log: log}
}

// Resume восстанавливает сессию при заходе клиента.
//
// Если токена нет, возвращает nil без ошибки. Если токен есть, запрашивает
// профиль у удалённого API; любая неудача (включая не-2xx ответ) очищает токен
// и возвращает nil — для вызывающей стороны это выглядит как отсутствие
// пользователя, а не как ошибка.
func (p *Provider) Resume(ctx context.Context, sid string) (*models.User, error) {
	const op = "session.Provider.Resume"
	log := p.log.With(slog.String("op", op))

	tokenStr, found, err := p.store.Token(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, nil
	}

	user, err := p.api.FetchUser(ctx, tokenStr)
	if err != nil {
		log.Warn("profile fetch failed, clearing session", sl.Err(err))
		if clearErr := p.store.Clear(ctx, sid); clearErr != nil {
			return nil, fmt.Errorf("%s: %w", op, clearErr)
		}
		return nil, nil
	}

	if err := p.store.SetUser(ctx, sid, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Login сохраняет токен и запрашивает профиль пользователя.
//
// Токен сохраняется синхронно до начала запроса профиля. При неудаче запроса
// токен НЕ очищается — асимметрия с Resume намеренно сохранена, поведение
// зафиксировано продуктом (см. DESIGN.md).
func (p *Provider) Login(ctx context.Context, sid, tokenStr string) (*models.User, error) {
	const op = "session.Provider.Login"

	if err := p.store.SetToken(ctx, sid, tokenStr); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := p.api.FetchUser(ctx, tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := p.store.SetUser(ctx, sid, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Logout очищает токен и профиль сессии. Сетевых вызовов не делает.
// Повторный вызов безопасен и оставляет то же конечное состояние.
func (p *Provider) Logout(ctx context.Context, sid string) error {
	const op = "session.Provider.Logout"
	if err := p.store.Clear(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ErrNoUser возвращается Current, когда в сессии нет закешированного профиля.
var ErrNoUser = errors.New("session: no user")

// Current возвращает закешированный профиль пользователя без сетевых вызовов.
func (p *Provider) Current(ctx context.Context, sid string) (*models.User, error) {
	const op = "session.Provider.Current"
	user, found, err := p.store.User(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, ErrNoUser
	}
	return user, nil
}
