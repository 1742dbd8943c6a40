package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DatabaseURL   string

	// RedisURL может быть пустым — тогда используется встроенное
	// хранилище в памяти (режим разработки).
	RedisURL string

	// VisionAPIKey может быть пустым — тогда распознавание скриншотов
	// отключено и бот просит прислать скриншот с подписью.
	VisionAPIKey string

	// WebhookListen — адрес HTTP-сервера для приёма webhook-обновлений
	// (например ":8080"). Пустой — бот работает через long polling.
	WebhookListen string

	RateLimit  int
	RateWindow time.Duration

	DefaultCurrency string
	Debug           bool
}

func Load() (*Config, error) {
	// .env не обязателен: в проде переменные приходят из окружения
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		VisionAPIKey:    os.Getenv("VISION_API_KEY"),
		WebhookListen:   os.Getenv("WEBHOOK_LISTEN"),
		RateLimit:       envInt("RATE_LIMIT", 30),
		RateWindow:      time.Duration(envInt("RATE_WINDOW_SECONDS", 60)) * time.Second,
		DefaultCurrency: envStr("DEFAULT_CURRENCY", "UZS"),
		Debug:           os.Getenv("DEBUG") == "true",
	}

	if cfg.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

func envStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
