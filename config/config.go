package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// bcrypt costs per environment. Dev and test stay fast, deployed
// environments pay for offline brute-force resistance.
const (
	devHashCost  = 6
	prodHashCost = 12
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local test staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret  string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h" validate:"min=1m"`

	ResendAPIKey  string        `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom    string        `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s" validate:"min=100ms,max=1m"`

	// Resend throttling is off unless REDIS_URL is set.
	RedisURL       string        `env:"REDIS_URL"`
	ResendCooldown time.Duration `env:"RESEND_COOLDOWN" envDefault:"60s"`

	S3Endpoint  string `env:"S3_ENDPOINT" envDefault:"localhost:9000"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"tickets" validate:"required"`
	S3UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// HashCost returns the bcrypt cost for the configured environment.
// Resolved once at startup and passed down explicitly.
func (c *Config) HashCost() int {
	return HashCostFor(c.Env)
}

func HashCostFor(env string) int {
	switch env {
	case "staging", "production":
		return prodHashCost
	default:
		return devHashCost
	}
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
