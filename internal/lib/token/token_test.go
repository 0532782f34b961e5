package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkudryashov/outreach-gateway/internal/lib/token"
)

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return signed
}

func TestDecode(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		tokenStr string
		wantErr  bool
		wantRole string
	}{
		{
			name: "валидный токен с ролью",
			tokenStr: signToken(t, token.Claims{
				Role:  "admin",
				Email: "admin@example.com",
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "u-1",
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				},
			}),
			wantRole: "admin",
		},
		{
			name:     "мусор вместо токена",
			tokenStr: "not-a-jwt",
			wantErr:  true,
		},
		{
			name:     "два сегмента вместо трёх",
			tokenStr: "abc.def",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := token.Decode(tt.tokenStr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, claims.Role)
		})
	}
}

func TestDecode_IgnoresSignature(t *testing.T) {
	// Подпись чужим ключом не мешает чтению полезной нагрузки.
	signed := signToken(t, token.Claims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	claims, err := token.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestClaims_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		exp  *jwt.NumericDate
		want bool
	}{
		{name: "срок в будущем", exp: jwt.NewNumericDate(now.Add(time.Minute)), want: false},
		{name: "срок в прошлом", exp: jwt.NewNumericDate(now.Add(-time.Minute)), want: true},
		{name: "срок равен текущему моменту", exp: jwt.NewNumericDate(now), want: true},
		{name: "без поля exp", exp: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &token.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: tt.exp}}
			assert.Equal(t, tt.want, claims.Expired(now))
		})
	}
}
