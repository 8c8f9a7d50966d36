package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript refills and consumes in one round trip so concurrent callers
// can never double-spend a token. Tokens travel back as a string because
// the Lua/Redis boundary truncates fractional numbers.
var takeScript = redis.NewScript(`
local limit = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'updated_at')
local tokens = tonumber(state[1])
local updated = tonumber(state[2])
if tokens == nil or updated == nil then
	tokens = limit
	updated = now
end

local elapsed = now - updated
if elapsed > 0 then
	tokens = math.min(limit, tokens + elapsed * rate)
end

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'updated_at', now)
redis.call('PEXPIRE', KEYS[1], ttl)

return {allowed, tostring(tokens)}
`)

// RedisStore keeps buckets in Redis so every instance behind a load
// balancer shares the same budget.
type RedisStore struct {
	client redis.Scripter
	now    func() time.Time
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithRedisClock overrides the store's time source.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRedisStore creates a store over the given client.
func NewRedisStore(client redis.Scripter, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Take implements Store.
func (s *RedisStore) Take(ctx context.Context, key string, policy Policy) (float64, bool, error) {
	// Keys outlive their last touch by a full window plus slack; an idle
	// bucket is indistinguishable from a fresh one by then.
	ttl := policy.Window.Milliseconds() * 2

	raw, err := takeScript.Run(ctx, s.client, []string{key},
		policy.Limit,
		policy.ratePerMS(),
		s.now().UnixMilli(),
		ttl,
	).Result()
	if err != nil {
		return 0, false, fmt.Errorf("rate limit script: %w", err)
	}

	reply, ok := raw.([]any)
	if !ok || len(reply) != 2 {
		return 0, false, fmt.Errorf("%w: %T", ErrBadReply, raw)
	}

	allowed, ok := reply[0].(int64)
	if !ok {
		return 0, false, fmt.Errorf("%w: allowed flag is %T", ErrBadReply, reply[0])
	}
	text, ok := reply[1].(string)
	if !ok {
		return 0, false, fmt.Errorf("%w: token count is %T", ErrBadReply, reply[1])
	}
	tokens, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: token count %q", ErrBadReply, text)
	}

	return tokens, allowed == 1, nil
}
