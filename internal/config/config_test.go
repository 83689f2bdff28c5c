package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var allVars = []string{
	"ELEARNING_ENV", "ELEARNING_ADDR", "ELEARNING_DB_PATH", "ELEARNING_CSRF_KEY",
	"ELEARNING_SESSION_KEY", "ELEARNING_ADMIN_USERNAME", "ELEARNING_ADMIN_PASSWORD",
	"ELEARNING_ADMIN_NAME", "ELEARNING_RESEND_KEY", "ELEARNING_MAIL_FROM",
	"ELEARNING_SUPPORT_EMAIL", "ELEARNING_LOG_LEVEL", "ELEARNING_SLOW_QUERY_MS",
	"ELEARNING_SLOW_REQUEST_MS", "ELEARNING_RATE_LIMIT",
}

// clearEnv blanks every variable Config reads; t.Setenv restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

const validKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "elearning.db" || cfg.Env != "development" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.RateLimit != 10 || cfg.SlowQueryMs != 50 || cfg.SlowRequestMs != 200 {
		t.Errorf("numeric defaults = %v %d %d %d", cfg.LogLevel, cfg.RateLimit, cfg.SlowQueryMs, cfg.SlowRequestMs)
	}
	if len(cfg.CSRFKey) != 32 || len(cfg.SessionKey) != 32 || !cfg.EphemeralKeys {
		t.Error("development must generate ephemeral 32-byte keys")
	}
}

func TestFromEnv_ProductionRequiresKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("ELEARNING_ENV", "production")
	_, err := FromEnv()
	if err == nil || !strings.Contains(err.Error(), "ELEARNING_CSRF_KEY") {
		t.Fatalf("err = %v, want CSRF key requirement", err)
	}

	t.Setenv("ELEARNING_CSRF_KEY", validKey)
	_, err = FromEnv()
	if err == nil || !strings.Contains(err.Error(), "ELEARNING_SESSION_KEY") {
		t.Fatalf("err = %v, want session key requirement", err)
	}

	t.Setenv("ELEARNING_SESSION_KEY", validKey)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if !cfg.IsProduction() || cfg.EphemeralKeys {
		t.Errorf("cfg = production %v, ephemeral %v", cfg.IsProduction(), cfg.EphemeralKeys)
	}
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"short csrf key", "ELEARNING_CSRF_KEY", "abcd"},
		{"non-hex session key", "ELEARNING_SESSION_KEY", strings.Repeat("z", 64)},
		{"bad level", "ELEARNING_LOG_LEVEL", "loud"},
		{"zero rate", "ELEARNING_RATE_LIMIT", "0"},
		{"text slow ms", "ELEARNING_SLOW_QUERY_MS", "fast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("%s=%q accepted", tt.key, tt.value)
			}
		})
	}
}

func TestFromEnv_LogLevelCaseInsensitive(t *testing.T) {
	clearEnv(t)
	t.Setenv("ELEARNING_LOG_LEVEL", "debug")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "ELEARNING_ADDR=:9999\nELEARNING_ADMIN_NAME=From File\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("ELEARNING_ADDR", ":7070")
	// godotenv only fills variables that are unset, so unset the blanked one.
	os.Unsetenv("ELEARNING_ADMIN_NAME")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %s, want environment value :7070", cfg.Addr)
	}
	if cfg.AdminName != "From File" {
		t.Errorf("AdminName = %s, want value from .env", cfg.AdminName)
	}
	os.Unsetenv("ELEARNING_ADMIN_NAME")
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load with missing file: %v", err)
	}
}
