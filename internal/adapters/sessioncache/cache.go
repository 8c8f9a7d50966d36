// Package sessioncache stores recommendation sessions so later feedback
// can be tied back to what was recommended and under which variant.
//
// Lookups hit a bounded in-process LRU first and fall through to Redis
// when one is configured. Entries expire after the session TTL in both
// tiers.
package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/okian/loadout/internal/domain/weights"
	"github.com/okian/loadout/pkg/logger"
	"github.com/okian/loadout/pkg/metrics"
)

// Session captures what one recommendation pass produced.
type Session struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	PlayerTag string          `json:"player_tag,omitempty"`
	Variant   string          `json:"variant"`
	Weights   weights.Weights `json:"weights"`
	DeckSlugs []string        `json:"deck_slugs"`
	CreatedAt time.Time       `json:"created_at"`
}

// Default cache shape.
const (
	defaultSize = 10_000
	defaultTTL  = 30 * time.Minute
)

// Cache is the two-tier session store.
type Cache struct {
	local *lru.LRU[string, Session]
	redis redis.Cmdable
	ttl   time.Duration
	size  int
	log   logger.Logger
}

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithSize bounds the in-process tier.
func WithSize(size int) Option {
	return func(c *Cache) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithTTL sets how long sessions stay retrievable.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRedis adds a shared Redis tier behind the local one.
func WithRedis(client redis.Cmdable) Option {
	return func(c *Cache) {
		if client != nil {
			c.redis = client
		}
	}
}

// WithLogger sets a custom logger for the cache.
func WithLogger(log logger.Logger) Option {
	return func(c *Cache) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a session cache. Without WithRedis it is purely in-process.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:  defaultTTL,
		size: defaultSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.local = lru.NewLRU[string, Session](c.size, nil, c.ttl)

	return c
}

// Put stores the session in every configured tier.
func (c *Cache) Put(ctx context.Context, s Session) error {
	c.local.Add(s.ID, s)

	if c.redis == nil {
		return nil
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := c.redis.Set(ctx, redisKey(s.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID. A Redis hit backfills the local tier so
// repeated feedback calls stay in-process.
func (c *Cache) Get(ctx context.Context, id string) (Session, bool) {
	if s, ok := c.local.Get(id); ok {
		metrics.RecordSessionCacheHit()
		return s, true
	}

	if c.redis != nil {
		payload, err := c.redis.Get(ctx, redisKey(id)).Bytes()
		switch {
		case err == nil:
			var s Session
			if err := json.Unmarshal(payload, &s); err == nil {
				c.local.Add(id, s)
				metrics.RecordSessionCacheHit()
				return s, true
			}
		case !errors.Is(err, redis.Nil):
			if c.log != nil {
				c.log.Warn(ctx, "session lookup failed", logger.String("session_id", id), logger.Error(err))
			}
		}
	}

	metrics.RecordSessionCacheMiss()
	return Session{}, false
}

// Len returns the number of sessions in the local tier.
func (c *Cache) Len() int {
	return c.local.Len()
}

func redisKey(id string) string {
	return "session:" + id
}
