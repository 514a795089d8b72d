package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript prunes, counts and conditionally records in one round
// trip. Scores are Unix milliseconds. Returns {allowed, count, oldest}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window)
	return {1, count + 1, 0}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
return {0, count, tonumber(oldest[2])}
`)

// RedisStore shares sliding windows through Redis sorted sets.
type RedisStore struct {
	client redis.UniversalClient
	now    func() time.Time
	seq    atomic.Uint64
}

// NewRedisStore wraps an existing client. Close closes the client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// NewRedisStoreFromURL parses url, connects and pings before returning.
func NewRedisStoreFromURL(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisStore(client), nil
}

var _ Store = (*RedisStore)(nil)

// Hit implements Store.
func (s *RedisStore) Hit(ctx context.Context, key string, rule Rule) (Result, error) {
	if key == "" {
		return Result{}, ErrKeyRequired
	}

	now := s.now().UnixMilli()
	window := rule.Window.Milliseconds()
	member := strconv.FormatInt(now, 10) + "-" + strconv.FormatUint(s.seq.Add(1), 10)

	vals, err := slidingWindowScript.Run(ctx, s.client, []string{key}, now, window, rule.Limit, member).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("rate limit check failed: unexpected reply %v", vals)
	}

	count := int(vals[1])
	if vals[0] == 1 {
		return Result{
			Allowed:   true,
			Limit:     rule.Limit,
			Remaining: rule.Limit - count,
		}, nil
	}

	retry := time.Duration(vals[2]+window-now) * time.Millisecond
	if retry < 0 {
		retry = 0
	}
	return Result{
		Allowed:    false,
		Limit:      rule.Limit,
		RetryAfter: retry,
	}, nil
}

// Reset implements Store.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
