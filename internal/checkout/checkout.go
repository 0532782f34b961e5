// Package checkout реализует поток покупки тарифа: создание заказа в биллинге,
// передачу платёжной сессии внешнему виджету и проверку платежа после возврата
// браузера на страницу статуса.
//
// Поток строго последователен для одного заказа: создание заказа, внешний
// редирект и проверка платежа разделены во времени, поэтому два пишущих вызова
// по одному order_id конкурентными быть не могут. Единственная защита от
// дублей — флаг выполняющейся проверки на order_id; между отдельными загрузками
// страницы он не действует.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avkudryashov/outreach-gateway/internal/lib/sl"
	"github.com/avkudryashov/outreach-gateway/internal/models"
	"github.com/avkudryashov/outreach-gateway/internal/plans"
	"github.com/avkudryashov/outreach-gateway/internal/remoteapi"
)

// Ошибки потока покупки.
var (
	// ErrPlanLocked — выбранный тариф не выше текущего.
	ErrPlanLocked = errors.New("checkout: plan is locked")
	// ErrPlanUnknown — тариф отсутствует в каталоге.
	ErrPlanUnknown = errors.New("checkout: unknown plan")
	// ErrOrderStale — отложенный заказ старше допустимого и считается заброшенным.
	ErrOrderStale = errors.New("checkout: pending order is stale")
	// ErrVerifyInFlight — проверка этого заказа уже выполняется.
	ErrVerifyInFlight = errors.New("checkout: verification already in flight")
)

// OrderStore описывает используемую потоком часть хранилища сессий.
type OrderStore interface {
	Token(ctx context.Context, sid string) (string, bool, error)
	PendingOrder(ctx context.Context, sid string) (*models.PendingOrder, bool, error)
	SetPendingOrder(ctx context.Context, sid string, order *models.PendingOrder) error
	ClearPendingOrder(ctx context.Context, sid string) error
}

// BillingClient описывает вызовы биллинга удалённого API.
type BillingClient interface {
	CreateOrder(ctx context.Context, tokenStr string, req remoteapi.CreateOrderRequest) (*remoteapi.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, tokenStr, orderID, orderToken string) (*remoteapi.VerifyPaymentResponse, error)
	SubscriptionStatus(ctx context.Context, tokenStr string) (*models.SubscriptionStatus, error)
}

// Session — данные, передаваемые встроенному платёжному виджету.
type Session struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	ReturnURL        string `json:"return_url"` // Адрес возврата с order_id в query-параметре
}

// Result — исход проверки платежа.
type Result struct {
	RedirectTo   string                     `json:"redirect_to"` // Куда вести пользователя после успеха
	Subscription *models.SubscriptionStatus `json:"subscription,omitempty"`
}

// Service реализует поток покупки тарифа.
type Service struct {
	store     OrderStore
	billing   BillingClient
	log       *slog.Logger
	orderTTL  time.Duration
	returnURL string

	mu       sync.Mutex
	inflight map[string]struct{} // order_id с выполняющейся проверкой

	now func() time.Time
}

// New создает Service.
func New(store OrderStore, billing BillingClient, log *slog.Logger, orderTTL time.Duration, returnURL string) *Service {
	return &Service{
		store:     store,
		billing:   billing,
		log:       log,
		orderTTL:  orderTTL,
		returnURL: returnURL,
		inflight:  make(map[string]struct{}),
		now:       time.Now,
	}
}

func (s *Service) token(ctx context.Context, sid string) (string, error) {
	const op = "checkout.token"
	tokenStr, found, err := s.store.Token(ctx, sid)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return "", fmt.Errorf("%s: %w", op, remoteapi.ErrUnauthorized)
	}
	return tokenStr, nil
}

// Start создает заказ в биллинге для выбранного тарифа.
//
// Проверка ранга выполняется до любого сетевого вызова: заблокированный или
// текущий тариф отклоняется локально. На успех сохраняется отложенный заказ
// с меткой времени, переживающий редирект на платёжный виджет.
func (s *Service) Start(ctx context.Context, sid string, user *models.User, planID, region string) (*Session, error) {
	const op = "checkout.Start"
	log := s.log.With(slog.String("op", op), slog.String("plan_id", planID))

	plan, ok := plans.ByID(planID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrPlanUnknown)
	}
	if plans.ButtonFor(*plan, user.CurrentPlan) != plans.ButtonUpgrade {
		return nil, fmt.Errorf("%s: %w", op, ErrPlanLocked)
	}

	amount, currency, err := plans.Amount(planID, region)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokenStr, err := s.token(ctx, sid)
	if err != nil {
		return nil, err
	}

	resp, err := s.billing.CreateOrder(ctx, tokenStr, remoteapi.CreateOrderRequest{
		PlanID:   planID,
		Amount:   amount,
		Currency: currency,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order := &models.PendingOrder{
		OrderID:   resp.OrderID,
		PlanID:    planID,
		CreatedAt: s.now(),
	}
	if err := s.store.SetPendingOrder(ctx, sid, order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order created", slog.String("order_id", resp.OrderID))
	return &Session{
		OrderID:          resp.OrderID,
		PaymentSessionID: resp.PaymentSessionID,
		ReturnURL:        s.returnURL + "?order_id=" + resp.OrderID,
	}, nil
}

// ConfirmReturn проверяет платёж после возврата браузера с платёжного виджета.
//
// Отложенный заказ с совпадающим order_id, переживший больше orderTTL,
// отбрасывается без сетевого вызова (ErrOrderStale). В остальных случаях
// выполняется ровно одна проверка на order_id одновременно; и успех, и неудача
// удаляют отложенный заказ, чтобы исключить повтор против возможно
// недействительного заказа.
func (s *Service) ConfirmReturn(ctx context.Context, sid, orderID, orderToken string) (*Result, error) {
	const op = "checkout.ConfirmReturn"
	log := s.log.With(slog.String("op", op), slog.String("order_id", orderID))

	s.mu.Lock()
	if _, busy := s.inflight[orderID]; busy {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, ErrVerifyInFlight)
	}
	s.inflight[orderID] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, orderID)
		s.mu.Unlock()
	}()

	pending, found, err := s.store.PendingOrder(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found && pending.OrderID == orderID && pending.Stale(s.now(), s.orderTTL) {
		log.Warn("pending order is stale, discarding")
		if err := s.store.ClearPendingOrder(ctx, sid); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrOrderStale)
	}

	tokenStr, err := s.token(ctx, sid)
	if err != nil {
		return nil, err
	}

	resp, err := s.billing.VerifyPayment(ctx, tokenStr, orderID, orderToken)
	// Отложенный заказ удаляется при любом исходе проверки.
	if found && pending.OrderID == orderID {
		if clearErr := s.store.ClearPendingOrder(ctx, sid); clearErr != nil {
			log.Error("failed to clear pending order", sl.Err(clearErr))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "payment verification failed"
		}
		return nil, fmt.Errorf("%s: %s", op, msg)
	}

	// Свежий снимок статуса подписки после успешной оплаты.
	status, err := s.billing.SubscriptionStatus(ctx, tokenStr)
	if err != nil {
		log.Warn("failed to refresh subscription status", sl.Err(err))
		status = nil
	}

	log.Info("payment verified")
	return &Result{RedirectTo: "/dashboard", Subscription: status}, nil
}

// CleanupStale отбрасывает заброшенный отложенный заказ сессии.
// Вызывается при каждой загрузке экрана тарифов; сетевых вызовов не делает.
func (s *Service) CleanupStale(ctx context.Context, sid string) error {
	const op = "checkout.CleanupStale"

	pending, found, err := s.store.PendingOrder(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found || !pending.Stale(s.now(), s.orderTTL) {
		return nil
	}

	s.log.Info("discarding stale pending order",
		slog.String("op", op), slog.String("order_id", pending.OrderID))
	if err := s.store.ClearPendingOrder(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
