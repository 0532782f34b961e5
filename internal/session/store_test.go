package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkudryashov/outreach-gateway/internal/config"
	"github.com/avkudryashov/outreach-gateway/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		Address: mr.Addr(),
	}

	store, err := NewStore(context.Background(), cfg, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_TokenRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, found, err := store.Token(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetToken(ctx, "sid-1", "tok123"))

	got, found, err := store.Token(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok123", got)

	// Токен другой сессии не виден.
	_, found, err = store.Token(ctx, "sid-2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Clear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetToken(ctx, "sid-1", "tok123"))
	require.NoError(t, store.SetUser(ctx, "sid-1", &models.User{UID: "u-1", Email: "a@b.c"}))
	require.NoError(t, store.SetPendingOrder(ctx, "sid-1", &models.PendingOrder{OrderID: "ORD1"}))

	require.NoError(t, store.Clear(ctx, "sid-1"))

	_, found, err := store.Token(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.User(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)

	// Отложенный заказ переживает очистку учётных данных.
	order, found, err := store.PendingOrder(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ORD1", order.OrderID)

	// Повторная очистка безопасна.
	require.NoError(t, store.Clear(ctx, "sid-1"))
}

func TestStore_PendingOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetPendingOrder(ctx, "sid-1", &models.PendingOrder{
		OrderID:   "ORD1",
		PlanID:    "business",
		CreatedAt: created,
	}))

	order, found, err := store.PendingOrder(ctx, "sid-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "business", order.PlanID)
	assert.True(t, order.CreatedAt.Equal(created))

	require.NoError(t, store.ClearPendingOrder(ctx, "sid-1"))
	_, found, err = store.PendingOrder(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Consent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	ok, err := store.Consent(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetConsent(ctx, "sid-1"))

	ok, err = store.Consent(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, ok)
}
