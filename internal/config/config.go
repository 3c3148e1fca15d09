// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mmynk/splitchamp/internal/models"
)

type Config struct {
	Server  ServerConfig
	DBPath  string
	Auth    AuthConfig
	Split   SplitConfig
	Log     LogConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Port               int
	RateLimitPerMinute int
	RateLimitBurst     int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type SplitConfig struct {
	// DefaultPolicy applies to sessions created without an explicit policy.
	DefaultPolicy models.UnassignedPolicy

	// VocabularyPath points to an optional YAML file of categorizer keywords.
	VocabularyPath string
}

type LogConfig struct {
	Level slog.Level
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads the configuration. Values from the process environment win over .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	port, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	rateLimitPerMinute, err := parseIntEnv("RATE_LIMIT_PER_MINUTE", 600)
	if err != nil {
		return cfg, err
	}

	rateLimitBurst, err := parseIntEnv("RATE_LIMIT_BURST", 50)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Port:               port,
		RateLimitPerMinute: rateLimitPerMinute,
		RateLimitBurst:     rateLimitBurst,
	}

	cfg.DBPath = getEnv("DB_PATH", "./data/splitchamp.db")

	tokenTTL, err := parseDurationEnv("JWT_TTL", 24*time.Hour)
	if err != nil {
		return cfg, err
	}

	cfg.Auth = AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  tokenTTL,
	}

	cfg.Split = SplitConfig{
		DefaultPolicy:  models.UnassignedPolicy(strings.ToLower(getEnv("SPLIT_UNASSIGNED_POLICY", string(models.ShareWithEveryone)))),
		VocabularyPath: getEnv("CATEGORY_VOCABULARY", ""),
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return cfg, err
	}
	cfg.Log = LogConfig{Level: level}

	metricsEnabled, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return cfg, err
	}
	cfg.Metrics = MetricsConfig{Enabled: metricsEnabled}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}

	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}

	if !c.Split.DefaultPolicy.Valid() {
		return fmt.Errorf("SPLIT_UNASSIGNED_POLICY must be %q or %q",
			models.ShareWithEveryone, models.LeaveUnassigned)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}

	return parsed, nil
}

// parseLevel accepts debug, info, warn and error.
func parseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: got %q", value)
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
