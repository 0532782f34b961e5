package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadConfig_Valid(t *testing.T) {
	configContent := `
env: test
http_server:
  address: ":8080"
  timeout: 10s
  idle_timeout: 60s
redis_connection:
  address: "localhost:6379"
  password: ""
  db: 1
  max_retries: 3
  dial_timeout: 5s
  timeout: 3s
remote_api:
  base_url: "https://api.example.com"
  timeout: 15s
session:
  cookie_name: sid
  ttl: 720h
checkout:
  pending_order_ttl: 1h
  return_url: /plans/payment-status
`
	path := writeConfig(t, configContent)

	var cfg Config
	require.NoError(t, cleanenv.ReadConfig(path, &cfg))

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPServer.Address)
	assert.Equal(t, "localhost:6379", cfg.RedisConnection.Address)
	assert.Equal(t, "https://api.example.com", cfg.RemoteAPI.BaseURL)
	assert.Equal(t, time.Hour, cfg.Checkout.PendingOrderTTL)
	assert.Equal(t, "/plans/payment-status", cfg.Checkout.ReturnURL)
}

func TestReadConfig_BaseURLRequired(t *testing.T) {
	configContent := `
env: test
`
	path := writeConfig(t, configContent)

	var cfg Config
	assert.Error(t, cleanenv.ReadConfig(path, &cfg))
}

func TestReadConfig_Defaults(t *testing.T) {
	configContent := `
env: test
remote_api:
  base_url: "http://localhost:3000"
`
	path := writeConfig(t, configContent)

	var cfg Config
	require.NoError(t, cleanenv.ReadConfig(path, &cfg))

	assert.Equal(t, ":8080", cfg.HTTPServer.Address)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, time.Hour, cfg.Checkout.PendingOrderTTL)
	assert.Equal(t, 15*time.Second, cfg.RemoteAPI.Timeout)
}
