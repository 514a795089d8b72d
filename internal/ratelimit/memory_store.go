package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps request timestamps in process memory. State is lost on
// restart, which is fine for a single-instance deployment.
type MemoryStore struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	now     func() time.Time

	cleanupInterval time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

type clientWindow struct {
	timestamps []time.Time
	window     time.Duration
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// DefaultCleanupInterval is how often a MemoryStore drops idle keys unless
// WithCleanupInterval says otherwise.
const DefaultCleanupInterval = 5 * time.Minute

// WithCleanupInterval sets how often the background loop drops idle keys.
// A zero or negative interval disables the loop.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.cleanupInterval = d }
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		clients: make(map[string]*clientWindow),
		now:     time.Now,
		stop:    make(chan struct{}),

		cleanupInterval: DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cleanupInterval > 0 {
		go s.cleanupLoop(s.cleanupInterval)
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, rule Rule) (Result, error) {
	if key == "" {
		return Result{}, ErrKeyRequired
	}

	now := s.now()
	windowStart := now.Add(-rule.Window)

	s.mu.Lock()
	defer s.mu.Unlock()

	cw, ok := s.clients[key]
	if !ok {
		cw = &clientWindow{window: rule.Window}
		s.clients[key] = cw
	}
	cw.timestamps = prune(cw.timestamps, windowStart)

	if len(cw.timestamps) >= rule.Limit {
		oldest := cw.timestamps[0]
		return Result{
			Allowed:    false,
			Limit:      rule.Limit,
			Remaining:  0,
			RetryAfter: oldest.Add(rule.Window).Sub(now),
		}, nil
	}

	cw.timestamps = append(cw.timestamps, now)
	return Result{
		Allowed:   true,
		Limit:     rule.Limit,
		Remaining: rule.Limit - len(cw.timestamps),
	}, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.clients, key)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup loop, if any.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes expired timestamps and forgets keys with nothing left.
func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, cw := range s.clients {
		cw.timestamps = prune(cw.timestamps, now.Add(-cw.window))
		if len(cw.timestamps) == 0 {
			delete(s.clients, key)
		}
	}
}

// prune filters in place on the shared backing array.
func prune(timestamps []time.Time, windowStart time.Time) []time.Time {
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	return valid
}
