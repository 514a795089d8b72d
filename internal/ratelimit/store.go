// Package ratelimit implements per-client sliding window request ceilings.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of recording one request against a rule.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Store records requests and enforces a rule for a single key.
type Store interface {
	// Hit prunes timestamps outside the window, and records the request only
	// when the count is still below rule.Limit. Check and record are atomic.
	Hit(ctx context.Context, key string, rule Rule) (Result, error)

	// Reset forgets all state for key.
	Reset(ctx context.Context, key string) error

	Close() error
}
