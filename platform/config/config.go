// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetIPRateLimitPerSecond() float64
	GetIPRateLimitBurst() int
}

// RedisConfig provides settings for the shared Redis instance.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SearchConfig provides settings for the client search pipeline.
type SearchConfig interface {
	GetSearchFetchTimeout() time.Duration
}

// RateLimitConfig provides settings for the per-caller search limiter.
type RateLimitConfig interface {
	GetRateLimitBackend() string
	GetRateLimitWindow() time.Duration
	GetRateLimitMax() int
	GetRateLimitRetention() time.Duration
	GetRateLimitSweepInterval() time.Duration
}

// Rate limit backends.
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	MigrationsDir          string
	JWTAccessSecret        string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	IPRateLimitPerSecond   float64
	IPRateLimitBurst       int
	RedisURL               string
	RedisTLSInsecure       bool
	SearchFetchTimeout     time.Duration
	RateLimitBackend       string
	RateLimitWindow        time.Duration
	RateLimitMax           int
	RateLimitRetention     time.Duration
	RateLimitSweepInterval time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string              { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool            { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string         { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool          { return c.CORSAllowCreds }
func (c *Config) GetIPRateLimitPerSecond() float64 { return c.IPRateLimitPerSecond }
func (c *Config) GetIPRateLimitBurst() int         { return c.IPRateLimitBurst }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// SearchConfig implementation
func (c *Config) GetSearchFetchTimeout() time.Duration { return c.SearchFetchTimeout }

// RateLimitConfig implementation
func (c *Config) GetRateLimitBackend() string              { return c.RateLimitBackend }
func (c *Config) GetRateLimitWindow() time.Duration        { return c.RateLimitWindow }
func (c *Config) GetRateLimitMax() int                     { return c.RateLimitMax }
func (c *Config) GetRateLimitRetention() time.Duration     { return c.RateLimitRetention }
func (c *Config) GetRateLimitSweepInterval() time.Duration { return c.RateLimitSweepInterval }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		MigrationsDir:          getEnv("MIGRATIONS_DIR", "migrations"),
		JWTAccessSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		IPRateLimitPerSecond:   mustFloat(getEnv("IP_RATE_LIMIT_RPS", "20")),
		IPRateLimitBurst:       mustInt(getEnv("IP_RATE_LIMIT_BURST", "40")),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		SearchFetchTimeout:     mustDuration(getEnv("SEARCH_FETCH_TIMEOUT", "5s")),
		RateLimitBackend:       strings.ToLower(strings.TrimSpace(getEnv("RATE_LIMIT_BACKEND", RateLimitBackendMemory))),
		RateLimitWindow:        mustDuration(getEnv("RATE_LIMIT_WINDOW", "600s")),
		RateLimitMax:           mustInt(getEnv("RATE_LIMIT_MAX", "100")),
		RateLimitRetention:     mustDuration(getEnv("RATE_LIMIT_RETENTION", "3600s")),
		RateLimitSweepInterval: mustDuration(getEnv("RATE_LIMIT_SWEEP_INTERVAL", "5m")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	switch cfg.RateLimitBackend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when RATE_LIMIT_BACKEND is redis")
		}
	default:
		return nil, fmt.Errorf("RATE_LIMIT_BACKEND must be %q or %q", RateLimitBackendMemory, RateLimitBackendRedis)
	}
	if cfg.SearchFetchTimeout <= 0 {
		return nil, fmt.Errorf("SEARCH_FETCH_TIMEOUT must be a positive duration")
	}
	if cfg.RateLimitWindow <= 0 || cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW and RATE_LIMIT_MAX must be positive")
	}
	if cfg.RateLimitRetention < cfg.RateLimitWindow {
		return nil, fmt.Errorf("RATE_LIMIT_RETENTION must not be shorter than RATE_LIMIT_WINDOW")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
