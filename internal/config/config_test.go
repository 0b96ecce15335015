package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testYAML = `
app:
  port: 8081
  gin_mode: test
database:
  dsn: "host=localhost user=auth dbname=auth_test"
redis:
  addr: "localhost:6379"
  db: 1
jwt:
  secret: "file-secret"
  issuer: "authcore"
  access_ttl: 15m
  refresh_ttl: 168h
otp:
  ttl: 5m
  length: 6
  max_attempts: 3
  resend_window: 60s
session:
  ttl: 24h
  sweep_interval: 10m
mail:
  smtp_host: ""
  smtp_port: 587
  from: "noreply@example.com"
casbin:
  model_path: config/model.conf
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	cfg, err := LoadFrom(writeTestConfig(t, testYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("expected port 8081, got %q", cfg.Port)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("expected 15m access TTL, got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("expected 168h refresh TTL, got %v", cfg.RefreshTTL)
	}
	if cfg.OTP_Length != 6 || cfg.OTP_MaxAttempts != 3 {
		t.Errorf("unexpected OTP policy: length=%d attempts=%d", cfg.OTP_Length, cfg.OTP_MaxAttempts)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected 24h session TTL, got %v", cfg.SessionTTL)
	}
	if cfg.SessionSweepInterval != 10*time.Minute {
		t.Errorf("expected 10m sweep interval, got %v", cfg.SessionSweepInterval)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Errorf("expected file secret, got %q", cfg.JWTSecret)
	}
	if cfg.CasbinModelPath != "config/model.conf" {
		t.Errorf("unexpected casbin model path %q", cfg.CasbinModelPath)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("AUTHCORE_JWT_SECRET", "env-secret")
	t.Setenv("AUTHCORE_DSN", "host=db user=prod")

	cfg, err := LoadFrom(writeTestConfig(t, testYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.JWTSecret != "env-secret" {
		t.Errorf("expected env secret to win, got %q", cfg.JWTSecret)
	}
	if cfg.DSN != "host=db user=prod" {
		t.Errorf("expected env DSN to win, got %q", cfg.DSN)
	}
}

func TestLoadFromInvalidDuration(t *testing.T) {
	broken := strings.Replace(testYAML, "access_ttl: 15m", "access_ttl: fifteen", 1)

	if _, err := LoadFrom(writeTestConfig(t, broken)); err == nil {
		t.Fatal("expected an error for an unparseable duration")
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
