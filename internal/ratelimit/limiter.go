// Package ratelimit throttles credential endpoints per client IP so
// password guessing cannot run at line rate.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Store counts requests per key within a window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}

// Limiter applies a fixed policy over a Store.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

// Default policy for auth endpoints: 10 attempts per IP per minute.
const (
	DefaultLimit  = 10
	DefaultWindow = time.Minute
)

func New(store Store, limit int, window time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{store: store, limit: limit, window: window}
}

func (l *Limiter) Check(ctx context.Context, key string) (*Result, error) {
	return l.store.Allow(ctx, key, l.limit, l.window)
}
