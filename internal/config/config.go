// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
// Базовый адрес удалённого API задаётся только здесь: в коде обработчиков
// жёстко прописанных хостов быть не должно.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек шлюза.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
	RemoteAPI       `yaml:"remote_api"`
	Session         `yaml:"session"`
	Checkout        `yaml:"checkout"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Address     string        `yaml:"address" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis,
// в котором хранится состояние клиентских сессий.
type RedisConnection struct {
	Address     string        `yaml:"address" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db" env-default:"0"`
	MaxRetries  int           `yaml:"max_retries" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env-default:"3s"`
}

// RemoteAPI структура для настройки клиента удалённого REST API.
type RemoteAPI struct {
	BaseURL string        `yaml:"base_url" env:"REMOTE_API_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

// Session структура для настройки клиентских сессий шлюза.
type Session struct {
	CookieName string        `yaml:"cookie_name" env-default:"sid"`
	TTL        time.Duration `yaml:"ttl" env-default:"720h"`
}

// Checkout структура для настройки платёжного потока.
type Checkout struct {
	PendingOrderTTL time.Duration `yaml:"pending_order_ttl" env-default:"1h"`
	ReturnURL       string        `yaml:"return_url" env-default:"/plans/payment-status"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
