package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/log"
)

type Config struct {
	TelegramToken string

	DBPath string

	// DefaultTimezone применяется, пока пользователь не настроил свою зону.
	DefaultTimezone string
	// DayStartHour — час, с которого начинается "день" в статистике.
	DayStartHour int

	StorageTimeout time.Duration
	LogLevel       slog.Level
}

func Load() (*Config, error) {
	// .env опционален: в продакшене переменные приходят из окружения.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		DBPath:          getEnv("DB_PATH", "expenses.db"),
		DefaultTimezone: getEnv("TIMEZONE", "UTC"),
		DayStartHour:    getEnvInt("DAY_START_HOUR", 0),
		StorageTimeout:  getEnvDuration("STORAGE_TIMEOUT", 5*time.Second),
		LogLevel:        log.ParseLevel(os.Getenv("LOG_LEVEL")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		return fmt.Errorf("invalid DAY_START_HOUR %d: must be between 0 and 23", c.DayStartHour)
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("STORAGE_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
