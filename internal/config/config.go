// Package config loads service settings from the environment, optionally
// seeded from a local .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// APIBaseURL is the root of the backend API serving events and
	// registrations.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3000/api"`
	// APITimeout bounds each backend call; zero leaves calls bound only to the
	// request context.
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`

	// EventPageBaseURL prefixes the "back to event" link. Empty keeps the link
	// relative to this service.
	EventPageBaseURL string `env:"EVENT_PAGE_BASE_URL"`

	// SubmitRateLimit uses the limiter format, e.g. "20-M" for 20 per minute.
	SubmitRateLimit string `env:"SUBMIT_RATE_LIMIT" envDefault:"20-M"`
	// TrustProxy takes the client IP from X-Forwarded-For and X-Real-IP. Only
	// enable behind a proxy that overwrites those headers.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and then parses the environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return Config{}, errors.New("API_BASE_URL is required")
	}
	if cfg.APITimeout < 0 {
		return Config{}, fmt.Errorf("API_TIMEOUT must not be negative, got %s", cfg.APITimeout)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
