package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore, *time.Time) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewRedisStore(client)
	store.now = func() time.Time { return now }
	t.Cleanup(func() { _ = store.Close() })

	return mr, store, &now
}

func TestRedisStore_EnforcesLimit(t *testing.T) {
	_, store, now := setupRedisStore(t)
	ctx := context.Background()
	rule := Rule{Limit: 3, Window: time.Minute}

	for i := range 3 {
		res, err := store.Hit(ctx, "k", rule)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 3-(i+1), res.Remaining)
		*now = now.Add(time.Second)
	}

	res, err := store.Hit(ctx, "k", rule)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 57*time.Second, res.RetryAfter)
}

func TestRedisStore_WindowSlides(t *testing.T) {
	_, store, now := setupRedisStore(t)
	ctx := context.Background()
	rule := Rule{Limit: 2, Window: time.Minute}

	_, err := store.Hit(ctx, "k", rule)
	require.NoError(t, err)
	*now = now.Add(30 * time.Second)
	_, err = store.Hit(ctx, "k", rule)
	require.NoError(t, err)

	res, err := store.Hit(ctx, "k", rule)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	*now = now.Add(31 * time.Second)
	res, err = store.Hit(ctx, "k", rule)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisStore_SetsExpiry(t *testing.T) {
	mr, store, _ := setupRedisStore(t)

	_, err := store.Hit(context.Background(), "k", Rule{Limit: 5, Window: time.Minute})
	require.NoError(t, err)

	assert.True(t, mr.Exists("k"))
	assert.Equal(t, time.Minute, mr.TTL("k"))
}

func TestRedisStore_Reset(t *testing.T) {
	mr, store, _ := setupRedisStore(t)
	ctx := context.Background()
	rule := Rule{Limit: 1, Window: time.Minute}

	_, err := store.Hit(ctx, "k", rule)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "k"))
	assert.False(t, mr.Exists("k"))

	res, err := store.Hit(ctx, "k", rule)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, store, _ := setupRedisStore(t)
	mr.Close()

	_, err := store.Hit(context.Background(), "k", Rule{Limit: 1, Window: time.Minute})
	assert.Error(t, err)
}

func TestNewRedisStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStoreFromURL(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	_, err = NewRedisStoreFromURL(context.Background(), "not a url")
	assert.Error(t, err)
}
