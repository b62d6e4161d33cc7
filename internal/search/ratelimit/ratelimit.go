// Package ratelimit implements the per-caller fixed-window search limiter.
//
// A caller may issue Policy.Max requests per Policy.Window, counted from the
// first request of the window. State lives behind Store so that a single
// instance can keep it in process while a fleet shares it through Redis.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Policy describes the window, the threshold and how long idle state is kept.
type Policy struct {
	Window    time.Duration
	Max       int
	Retention time.Duration
}

// DefaultPolicy is 100 requests per 600 seconds, state kept for an hour.
var DefaultPolicy = Policy{
	Window:    600 * time.Second,
	Max:       100,
	Retention: 3600 * time.Second,
}

// Window is a caller's counter after a hit.
type Window struct {
	Start time.Time
	Count int
}

// Store persists windows. Hit must be atomic per key: reset the window when
// it is missing or expired (now >= start+window), otherwise increment the
// count, never past max+1.
type Store interface {
	Hit(ctx context.Context, key string, now time.Time, policy Policy) (Window, error)
	// Sweep drops state untouched for longer than policy.Retention.
	Sweep(ctx context.Context, now time.Time, policy Policy) (int, error)
}

// Decision is the limiter verdict for one request.
type Decision struct {
	Allowed   bool
	Count     int
	Remaining int
	ResetAt   time.Time
	// DecidedAt is the limiter time the hit was counted at.
	DecidedAt time.Time
}

// RetryAfter is the time from the decision until the caller's window resets.
func (d Decision) RetryAfter() time.Duration {
	if wait := d.ResetAt.Sub(d.DecidedAt); wait > 0 {
		return wait
	}
	return 0
}

// ErrEmptyKey is returned when a request carries no caller key.
var ErrEmptyKey = errors.New("ratelimit: empty caller key")

// Limiter applies a Policy on top of a Store.
type Limiter struct {
	store  Store
	policy Policy
	now    func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter. Zero policy fields fall back to DefaultPolicy.
func New(store Store, policy Policy, opts ...Option) *Limiter {
	if policy.Window <= 0 {
		policy.Window = DefaultPolicy.Window
	}
	if policy.Max <= 0 {
		policy.Max = DefaultPolicy.Max
	}
	if policy.Retention < policy.Window {
		policy.Retention = DefaultPolicy.Retention
		if policy.Retention < policy.Window {
			policy.Retention = policy.Window
		}
	}

	l := &Limiter{store: store, policy: policy, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Policy returns the effective policy.
func (l *Limiter) Policy() Policy {
	return l.policy
}

// Allow records one request for key and reports whether it may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if key == "" {
		return Decision{}, ErrEmptyKey
	}

	now := l.now()
	w, err := l.store.Hit(ctx, key, now, l.policy)
	if err != nil {
		return Decision{}, err
	}

	remaining := l.policy.Max - w.Count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   w.Count <= l.policy.Max,
		Count:     w.Count,
		Remaining: remaining,
		ResetAt:   w.Start.Add(l.policy.Window),
		DecidedAt: now,
	}, nil
}

// Sweep garbage-collects stale state once.
func (l *Limiter) Sweep(ctx context.Context) (int, error) {
	return l.store.Sweep(ctx, l.now(), l.policy)
}

// RunSweeper sweeps every interval until ctx is cancelled. Errors are passed
// to onErr and do not stop the loop.
func (l *Limiter) RunSweeper(ctx context.Context, interval time.Duration, onErr func(error)) error {
	if interval <= 0 {
		interval = l.policy.Window
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := l.Sweep(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
