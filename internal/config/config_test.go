package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/splitchamp/internal/models"
)

var keys = []string{
	"ENV_FILE", "SERVER_PORT", "DB_PATH", "JWT_SECRET", "JWT_TTL",
	"RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST", "LOG_LEVEL",
	"SPLIT_UNASSIGNED_POLICY", "CATEGORY_VOCABULARY", "METRICS_ENABLED",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr())
	}
	if cfg.DBPath != "./data/splitchamp.db" {
		t.Errorf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Split.DefaultPolicy != models.ShareWithEveryone {
		t.Errorf("expected share_with_everyone, got %s", cfg.Split.DefaultPolicy)
	}
	if cfg.Log.Level != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.Log.Level)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics enabled by default")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "SERVER_PORT=9090\nJWT_SECRET=file-secret-0123456789\nSPLIT_UNASSIGNED_POLICY=leave_unassigned\nLOG_LEVEL=debug\nMETRICS_ENABLED=false\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("ENV_FILE", envFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Split.DefaultPolicy != models.LeaveUnassigned {
		t.Errorf("expected leave_unassigned, got %s", cfg.Split.DefaultPolicy)
	}
	if cfg.Log.Level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Log.Level)
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics disabled")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "short secret", env: map[string]string{"JWT_SECRET": "short"}},
		{name: "bad port", env: map[string]string{"JWT_SECRET": "0123456789abcdef", "SERVER_PORT": "http"}},
		{name: "negative burst", env: map[string]string{"JWT_SECRET": "0123456789abcdef", "RATE_LIMIT_BURST": "-1"}},
		{name: "bad ttl", env: map[string]string{"JWT_SECRET": "0123456789abcdef", "JWT_TTL": "forever"}},
		{name: "bad policy", env: map[string]string{"JWT_SECRET": "0123456789abcdef", "SPLIT_UNASSIGNED_POLICY": "nobody"}},
		{name: "bad level", env: map[string]string{"JWT_SECRET": "0123456789abcdef", "LOG_LEVEL": "loud"}},
		{name: "bad bool", env: map[string]string{"JWT_SECRET": "0123456789abcdef", "METRICS_ENABLED": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
