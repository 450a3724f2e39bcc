package config

import (
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"SERVER_PORT", "UPSTREAM_BASE_URL", "UPSTREAM_TIMEOUT", "DASHBOARD_REFRESH_INTERVAL",
	"HISTORY_ENABLED", "DATABASE_URL", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
	"CACHE_ENABLED", "CACHE_SNAPSHOT_TTL", "REQUEST_TIMEOUT_SECONDS", "LOG_ENCODING",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Address() != "0.0.0.0:8090" {
		t.Fatalf("address default: %s", cfg.Address())
	}
	if cfg.Upstream.BaseURL != "http://localhost:8080/api/v1" {
		t.Fatalf("upstream default: %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 10*time.Second {
		t.Fatalf("upstream timeout default: %s", cfg.Upstream.Timeout)
	}
	if cfg.Dashboard.RefreshInterval != 0 {
		t.Fatalf("refresh should be on demand by default")
	}
	if cfg.Database.Enabled || cfg.Redis.Enabled {
		t.Fatalf("history and cache should be disabled by default")
	}
	if !strings.HasPrefix(cfg.Database.URL, "postgres://dashboard:@localhost:5432/orderflow_dashboard") {
		t.Fatalf("database url: %s", cfg.Database.URL)
	}
	if cfg.Redis.SnapshotTTL != 10*time.Minute {
		t.Fatalf("snapshot ttl default: %s", cfg.Redis.SnapshotTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("UPSTREAM_BASE_URL", "https://orders.example.com/api/v1/")
	t.Setenv("UPSTREAM_TIMEOUT", "3")
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "1m")
	t.Setenv("HISTORY_ENABLED", "true")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("CACHE_SNAPSHOT_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != "9000" {
		t.Fatalf("port env")
	}
	if cfg.Upstream.BaseURL != "https://orders.example.com/api/v1" {
		t.Fatalf("trailing slash should be trimmed: %s", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Fatalf("plain seconds should parse: %s", cfg.Upstream.Timeout)
	}
	if cfg.Dashboard.RefreshInterval != time.Minute {
		t.Fatalf("refresh interval env")
	}
	if !cfg.Database.Enabled || cfg.Database.URL != "postgres://u:p@db:5432/x" {
		t.Fatalf("database env")
	}
	if cfg.Redis.SnapshotTTL != 90*time.Second {
		t.Fatalf("ttl env")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non http upstream", "UPSTREAM_BASE_URL", "ftp://orders"},
		{"sub-second refresh", "DASHBOARD_REFRESH_INTERVAL", "200ms"},
		{"negative refresh", "DASHBOARD_REFRESH_INTERVAL", "-1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
