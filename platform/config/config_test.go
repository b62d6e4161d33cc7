package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/clients")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetRateLimitWindow() != 600*time.Second {
		t.Fatalf("expected 600s window, got %s", cfg.GetRateLimitWindow())
	}
	if cfg.GetRateLimitMax() != 100 {
		t.Fatalf("expected max 100, got %d", cfg.GetRateLimitMax())
	}
	if cfg.GetRateLimitRetention() != time.Hour {
		t.Fatalf("expected 1h retention, got %s", cfg.GetRateLimitRetention())
	}
	if cfg.GetRateLimitBackend() != RateLimitBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.GetRateLimitBackend())
	}
	if cfg.GetSearchFetchTimeout() != 5*time.Second {
		t.Fatalf("expected 5s fetch timeout, got %s", cfg.GetSearchFetchTimeout())
	}
}

func TestFromEnvRequiresDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := fromEnv(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestFromEnvRedisBackendRequiresURL(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("REDIS_URL", "")

	if _, err := fromEnv(); err == nil {
		t.Fatal("expected error for redis backend without REDIS_URL")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := fromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetRateLimitBackend() != RateLimitBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.GetRateLimitBackend())
	}
}

func TestFromEnvRejectsUnknownBackend(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_BACKEND", "memcached")

	if _, err := fromEnv(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestFromEnvWildcardOriginsConflictWithCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "https://a.example, *")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := fromEnv(); err == nil {
		t.Fatal("expected wildcard origins with credentials to be rejected")
	}
}
