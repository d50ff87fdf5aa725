// Package config loads taskmatch settings from the environment, reading a
// .env file first when one exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// Database. An empty DatabaseURL selects local SQLite at SQLitePath.
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	MaxDBConns     int

	// Optional infrastructure; empty URLs disable them.
	RedisURL         string
	RabbitMQURL      string
	RabbitMQExchange string

	// Read path
	CacheTTL                time.Duration
	BreakerEnabled          bool
	BreakerFailureThreshold int
	BreakerTimeout          time.Duration

	// Scoring and insights
	RankConcurrency int
	// RandomSeed makes insight synthesis reproducible. Zero seeds from the
	// runtime generator.
	RandomSeed uint64

	// FixturePath, when set, serves reads from a YAML team fixture in memory
	// instead of the database.
	FixturePath string
}

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "auto"),
		SQLitePath:     getEnv("SQLITE_PATH", ""),
		MaxDBConns:     getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:         getEnv("REDIS_URL", ""),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "taskmatch.allocation.events"),

		CacheTTL:                getDurationEnv("CACHE_TTL", 5*time.Minute),
		BreakerEnabled:          getBoolEnv("BREAKER_ENABLED", true),
		BreakerFailureThreshold: getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerTimeout:          getDurationEnv("BREAKER_TIMEOUT", 30*time.Second),

		RankConcurrency: getIntEnv("RANK_CONCURRENCY", 8),
		RandomSeed:      getUint64Env("RANDOM_SEED", 0),

		FixturePath: getEnv("TASKMATCH_FIXTURE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.DatabaseDriver) {
	case "", "auto", "postgres", "postgresql", "sqlite", "sqlite3":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER: unsupported driver %q", c.DatabaseDriver))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL: unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q", c.LogFormat))
	}
	if c.RankConcurrency < 1 {
		errs = append(errs, fmt.Errorf("RANK_CONCURRENCY: must be at least 1, got %d", c.RankConcurrency))
	}
	if c.BreakerFailureThreshold < 1 {
		errs = append(errs, fmt.Errorf("BREAKER_FAILURE_THRESHOLD: must be at least 1, got %d", c.BreakerFailureThreshold))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL: must not be negative, got %s", c.CacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LocalMode reports whether the data lives in a local SQLite file.
func (c *Config) LocalMode() bool {
	switch strings.ToLower(c.DatabaseDriver) {
	case "sqlite", "sqlite3":
		return true
	case "postgres", "postgresql":
		return false
	}
	return c.DatabaseURL == "" ||
		strings.HasPrefix(c.DatabaseURL, "sqlite://") ||
		strings.HasPrefix(c.DatabaseURL, "file:") ||
		strings.HasSuffix(c.DatabaseURL, ".db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getUint64Env(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if u, err := strconv.ParseUint(value, 10, 64); err == nil {
			return u
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
