package config

import (
	"testing"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", testEncryptionKey)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected default db port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Database.MaxConns != 8 {
		t.Errorf("expected default max conns 8, got %d", cfg.Database.MaxConns)
	}
	if !cfg.Scheduler.Enabled {
		t.Error("expected scheduler enabled by default")
	}
	if cfg.Alerts.LargeTransactionThreshold != "10000" {
		t.Errorf("expected default alert threshold 10000, got %s", cfg.Alerts.LargeTransactionThreshold)
	}
	if cfg.Telemetry.Enabled {
		t.Error("expected telemetry disabled by default")
	}
}

func TestLoad_RequiredFields(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", testEncryptionKey)
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("expected an error when JWT_SECRET is missing")
	}

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("expected an error when ENCRYPTION_KEY is missing")
	}

	t.Setenv("ENCRYPTION_KEY", "too-short")
	if _, err := Load(); err == nil {
		t.Error("expected an error for a non-32-byte encryption key")
	}
}

func TestLoad_TLSValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TLS_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Error("expected an error when TLS is enabled without cert paths")
	}

	t.Setenv("TLS_CERT_PATH", "/etc/tls/cert.pem")
	t.Setenv("TLS_KEY_PATH", "/etc/tls/key.pem")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.TLS.Enabled {
		t.Error("expected TLS enabled")
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_HOSTS", "ops.example.com, dashboard.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Server.AllowedHosts) != 2 {
		t.Fatalf("expected 2 allowed hosts, got %v", cfg.Server.AllowedHosts)
	}
	if cfg.Server.AllowedHosts[1] != "dashboard.example.com" {
		t.Errorf("hosts not trimmed: %q", cfg.Server.AllowedHosts[1])
	}
}

func TestLoad_SchedulerTimes(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCHEDULER_TIMES", "03:00,15:30")
	t.Setenv("SCHEDULER_WORKERS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Scheduler.ScheduleTimes) != 2 || cfg.Scheduler.ScheduleTimes[1] != "15:30" {
		t.Errorf("unexpected schedule times: %v", cfg.Scheduler.ScheduleTimes)
	}
	if cfg.Scheduler.WorkerCount != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Scheduler.WorkerCount)
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"garbage", true}, // falls back to the default
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := getBoolEnv("TEST_BOOL", true); got != tt.want {
				t.Errorf("getBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
