package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Addr      string `env:"API_ADDR" envDefault:"127.0.0.1:8080" validate:"required"` // "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir    string `env:"LOG_DIR" envDefault:"logs" validate:"required"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogStderr bool   `env:"LOG_STDERR" envDefault:"false"` // also write logs to stderr

	CheckDelayMS  int    `env:"CHECK_DELAY_MS" envDefault:"2000" validate:"min=1,max=600000"`
	LocationsFile string `env:"LOCATIONS_FILE"` // empty means built-in table
	RandomSeed    uint64 `env:"RANDOM_SEED" envDefault:"0"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","` // empty means allow all
	PublicRPM      int      `env:"PUBLIC_RPM" envDefault:"120" validate:"min=0"`
	PublicBurst    int      `env:"PUBLIC_BURST" envDefault:"60" validate:"min=0"`

	SlackWebhookURL string   `env:"SLACK_WEBHOOK_URL" validate:"omitempty,url"`
	ResendAPIKey    string   `env:"RESEND_API_KEY"`
	AlertEmailFrom  string   `env:"ALERT_EMAIL_FROM" validate:"required_with=ResendAPIKey"`
	AlertEmailTo    []string `env:"ALERT_EMAIL_TO" envSeparator:"," validate:"required_with=ResendAPIKey,dive,email"`
	AlertCooldownMS int      `env:"ALERT_COOLDOWN_MS" envDefault:"300000" validate:"min=0"`
	AlertOnRecovery bool     `env:"ALERT_ON_RECOVERY" envDefault:"true"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) CheckDelay() time.Duration {
	return time.Duration(c.CheckDelayMS) * time.Millisecond
}

func (c Config) AlertCooldown() time.Duration {
	return time.Duration(c.AlertCooldownMS) * time.Millisecond
}
