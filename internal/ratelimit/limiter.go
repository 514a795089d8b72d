package ratelimit

import (
	"context"
	"strings"
)

// Decision is the combined result of every rule checked for one request.
type Decision struct {
	Allowed bool
	// Rule is the rule that rejected the request, zero when allowed.
	Rule Rule
	// Result is the rejecting result, or the tightest allowed one.
	Result Result
}

// Limiter applies rule sets to (scope, client) pairs on top of a Store.
type Limiter struct {
	store  Store
	prefix string
}

// NewLimiter creates a Limiter. Keys are namespaced with prefix.
func NewLimiter(store Store, prefix string) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Limiter{store: store, prefix: prefix}, nil
}

// Allow records the request against every rule in order and stops at the
// first rejection. Rules checked before the rejecting one keep the hit.
func (l *Limiter) Allow(ctx context.Context, scope, client string, rules ...Rule) (Decision, error) {
	d := Decision{Allowed: true, Result: Result{Remaining: -1}}
	for _, rule := range rules {
		res, err := l.store.Hit(ctx, l.key(scope, client, rule), rule)
		if err != nil {
			return Decision{}, err
		}
		if !res.Allowed {
			return Decision{Allowed: false, Rule: rule, Result: res}, nil
		}
		if d.Result.Remaining < 0 || res.Remaining < d.Result.Remaining {
			d.Result = res
		}
	}
	return d, nil
}

// Close releases the underlying store.
func (l *Limiter) Close() error {
	return l.store.Close()
}

func (l *Limiter) key(scope, client string, rule Rule) string {
	return strings.Join([]string{l.prefix, scope, client, rule.String()}, ":")
}
