package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestNewMemoryStore_CleanupLoopOnByDefault(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	if s.cleanupInterval != DefaultCleanupInterval {
		t.Fatalf("cleanup interval = %v, want %v", s.cleanupInterval, DefaultCleanupInterval)
	}

	off := NewMemoryStore(WithCleanupInterval(0))
	defer off.Close()
	if off.cleanupInterval > 0 {
		t.Errorf("WithCleanupInterval(0) should disable the loop, got %v", off.cleanupInterval)
	}
}

func TestMemoryStore_SweepForgetsExpiredClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(WithClock(func() time.Time { return now }), WithCleanupInterval(0))
	defer s.Close()

	ctx := context.Background()
	rule := Rule{Limit: 5, Window: time.Minute}
	for i := 0; i < 10000; i++ {
		if _, err := s.Hit(ctx, fmt.Sprintf("contact:10.0.%d.%d", i/256, i%256), rule); err != nil {
			t.Fatal(err)
		}
	}
	if n := s.Len(); n != 10000 {
		t.Fatalf("tracked %d keys, want 10000", n)
	}

	now = now.Add(24 * time.Hour)
	s.sweep()
	if n := s.Len(); n != 0 {
		t.Errorf("tracked %d keys after every window expired, want 0", n)
	}
}
