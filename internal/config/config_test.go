package config

import (
	"testing"
	"time"
)

func TestFromEnv_ParsesAndDefaults(t *testing.T) {
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("LOG_DIR", "./_testlogs")
	t.Setenv("CHECK_DELAY_MS", "250")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PUBLIC_RPM", "111")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("ALERT_ON_RECOVERY", "false")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.LogDir != "./_testlogs" {
		t.Fatalf("addr/logdir wrong: %+v", cfg)
	}
	if cfg.CheckDelay() != 250*time.Millisecond {
		t.Fatalf("delay wrong: %v", cfg.CheckDelay())
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins wrong: %+v", cfg.AllowedOrigins)
	}
	if cfg.PublicRPM != 111 || cfg.PublicBurst != 60 || cfg.RandomSeed != 42 {
		t.Fatalf("limits/seed wrong: %+v", cfg)
	}
	if cfg.AlertOnRecovery {
		t.Fatalf("expected AlertOnRecovery=false")
	}
	if cfg.AlertCooldown() != 5*time.Minute {
		t.Fatalf("default cooldown wrong: %v", cfg.AlertCooldown())
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8080" || cfg.CheckDelay() != 2*time.Second || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"CHECK_DELAY_MS":    "0",
		"LOG_LEVEL":         "loud",
		"SLACK_WEBHOOK_URL": "not a url",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("%s=%q should be rejected", k, v)
			}
		})
	}
}

func TestFromEnv_EmailNeedsSenderAndRecipients(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_test")
	if _, err := FromEnv(); err == nil {
		t.Fatal("api key without sender/recipients should be rejected")
	}
	t.Setenv("ALERT_EMAIL_FROM", "alerts@example.com")
	t.Setenv("ALERT_EMAIL_TO", "ops@example.com")
	if _, err := FromEnv(); err != nil {
		t.Fatalf("complete email config rejected: %v", err)
	}
}
