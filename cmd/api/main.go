package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "clientregistry/internal/http"
	"clientregistry/internal/http/router"
	"clientregistry/internal/search"
	"clientregistry/internal/search/ratelimit"
	"clientregistry/internal/search/repository"
	"clientregistry/platform/config"
	"clientregistry/platform/db"
	"clientregistry/platform/httpkit"
	"clientregistry/platform/logger"
	"clientregistry/platform/metrics"
	"clientregistry/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout = 10 * time.Second
	ipIdleTimeout   = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, cfg.MigrationsDir)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	limiterStore, closeLimiterStore, err := initLimiterStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize rate limit store", "error", err)
		panic("failed to initialize rate limit store: " + err.Error())
	}
	if closeLimiterStore != nil {
		defer closeLimiterStore()
	}

	metrics.Register(prometheus.DefaultRegisterer)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	searchModule := search.NewModule(repository.New(pool), limiterStore, cfg, cfg, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	ipLimiter := httpkit.NewIPRateLimiter(rate.Limit(cfg.GetIPRateLimitPerSecond()), cfg.GetIPRateLimitBurst(), log)

	app := &apphttp.App{
		Config:    cfg,
		Logger:    log,
		Health:    db.NewPoolAdapter(pool),
		IPLimiter: ipLimiter,
		Modules: []apphttp.Module{
			searchModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return searchModule.Limiter().RunSweeper(gctx, cfg.GetRateLimitSweepInterval(), func(err error) {
			log.Warn("rate limit sweep failed", "error", err)
		})
	})
	g.Go(func() error {
		return ipLimiter.RunSweeper(gctx, cfg.GetRateLimitSweepInterval(), ipIdleTimeout)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

// initLimiterStore picks the per-caller limiter backend. The redis backend
// shares windows across instances.
func initLimiterStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (ratelimit.Store, func(), error) {
	if cfg.GetRateLimitBackend() != config.RateLimitBackendRedis {
		log.Info("rate limiter using in-process store")
		return ratelimit.NewMemoryStore(), nil, nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if opts.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed dev clusters
	}

	client := redis.NewClient(opts)
	if err := withRetry(ctx, log, "redis connection", 5, time.Second, func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info("rate limiter using redis store")

	return ratelimit.NewRedisStore(client, ""), func() { _ = client.Close() }, nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
