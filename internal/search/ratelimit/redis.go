package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript resets or increments a window atomically. Times are unix
// milliseconds. The key TTL is refreshed on every hit, so idle callers
// expire on their own after the retention period.
var hitScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local start = tonumber(redis.call('HGET', KEYS[1], 'start'))
if (not start) or now >= start + window then
	redis.call('HSET', KEYS[1], 'start', ARGV[1], 'count', '1')
	redis.call('PEXPIRE', KEYS[1], ttl)
	return {now, 1}
end

local count = tonumber(redis.call('HGET', KEYS[1], 'count')) or 0
if count <= max then
	count = redis.call('HINCRBY', KEYS[1], 'count', 1)
end
redis.call('PEXPIRE', KEYS[1], ttl)
return {start, count}
`)

// RedisStore shares windows between instances through Redis.
type RedisStore struct {
	client redis.Scripter
	prefix string
}

// NewRedisStore creates a store using keys "<prefix><callerKey>".
func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:search:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Hit implements Store.
func (s *RedisStore) Hit(ctx context.Context, key string, now time.Time, policy Policy) (Window, error) {
	res, err := hitScript.Run(ctx, s.client, []string{s.prefix + key},
		now.UnixMilli(),
		policy.Window.Milliseconds(),
		policy.Max,
		policy.Retention.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Window{}, fmt.Errorf("ratelimit hit: %w", err)
	}
	if len(res) != 2 {
		return Window{}, fmt.Errorf("ratelimit hit: unexpected reply length %d", len(res))
	}

	return Window{Start: time.UnixMilli(res[0]).In(now.Location()), Count: int(res[1])}, nil
}

// Sweep implements Store. Redis expires idle keys through their TTL.
func (s *RedisStore) Sweep(context.Context, time.Time, Policy) (int, error) {
	return 0, nil
}
