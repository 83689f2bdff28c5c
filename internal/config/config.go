// Package config reads process configuration from the environment, after
// loading an optional .env file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvProduction is the ELEARNING_ENV value that enables production checks.
const EnvProduction = "production"

// Config is the resolved process configuration.
type Config struct {
	Env    string
	Addr   string
	DBPath string

	CSRFKey    []byte // 32 bytes
	SessionKey []byte // 32 bytes, signs the visitor grant cookie
	// EphemeralKeys is true when CSRFKey or SessionKey was generated at startup.
	EphemeralKeys bool

	AdminUsername string
	AdminPassword string
	AdminName     string

	ResendKey    string
	MailFrom     string
	SupportEmail string

	LogLevel      slog.Level
	SlowQueryMs   int
	SlowRequestMs int
	RateLimit     int // requests per second per IP
}

// IsProduction reports whether production checks apply.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables already set, then resolves Config from the environment.
// PRE: envFile may be empty or point to a missing file
// POST: Returns a Config with defaults applied, or an error naming the bad variable
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv resolves Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:           envOrDefault("ELEARNING_ENV", "development"),
		Addr:          envOrDefault("ELEARNING_ADDR", ":8080"),
		DBPath:        envOrDefault("ELEARNING_DB_PATH", "elearning.db"),
		AdminUsername: envOrDefault("ELEARNING_ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ELEARNING_ADMIN_PASSWORD"),
		AdminName:     envOrDefault("ELEARNING_ADMIN_NAME", "Administrator"),
		ResendKey:     os.Getenv("ELEARNING_RESEND_KEY"),
		MailFrom:      envOrDefault("ELEARNING_MAIL_FROM", "E-Learning Portal <noreply@example.com>"),
		SupportEmail:  os.Getenv("ELEARNING_SUPPORT_EMAIL"),
	}

	var err error
	if cfg.LogLevel, err = parseLevel(os.Getenv("ELEARNING_LOG_LEVEL")); err != nil {
		return Config{}, err
	}
	if cfg.SlowQueryMs, err = positiveInt("ELEARNING_SLOW_QUERY_MS", 50); err != nil {
		return Config{}, err
	}
	if cfg.SlowRequestMs, err = positiveInt("ELEARNING_SLOW_REQUEST_MS", 200); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = positiveInt("ELEARNING_RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}

	var generated bool
	if cfg.CSRFKey, generated, err = secretKey("ELEARNING_CSRF_KEY", cfg.IsProduction()); err != nil {
		return Config{}, err
	}
	cfg.EphemeralKeys = generated
	if cfg.SessionKey, generated, err = secretKey("ELEARNING_SESSION_KEY", cfg.IsProduction()); err != nil {
		return Config{}, err
	}
	cfg.EphemeralKeys = cfg.EphemeralKeys || generated

	return cfg, nil
}

// secretKey decodes a 64-hex-char key from name. Outside production a missing
// key is replaced by a random one.
func secretKey(name string, production bool) ([]byte, bool, error) {
	if keyHex := os.Getenv(name); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, false, fmt.Errorf("%s must be 64 hex characters (32 bytes)", name)
		}
		return key, false, nil
	}
	if production {
		return nil, false, fmt.Errorf("%s is required in production", name)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, fmt.Errorf("generate %s: %w", name, err)
	}
	return key, true, nil
}

func parseLevel(v string) (slog.Level, error) {
	if v == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
		return 0, fmt.Errorf("ELEARNING_LOG_LEVEL: %w", err)
	}
	return level, nil
}

func positiveInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return n, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
