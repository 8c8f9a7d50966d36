// Package ratelimit implements a token-bucket rate limiter keyed by
// resource and caller identity.
//
// Buckets hold fractional tokens and refill continuously at limit/window.
// The primary store is Redis, where refill and consumption happen in one
// atomic script; when Redis is unreachable the limiter degrades to an
// in-process store rather than failing requests.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/okian/loadout/pkg/logger"
	"github.com/okian/loadout/pkg/metrics"
)

// Policy describes one bucket shape: Limit tokens refilled over Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// ratePerMS is the refill rate in tokens per millisecond.
func (p Policy) ratePerMS() float64 {
	return float64(p.Limit) / float64(p.Window.Milliseconds())
}

// Result is the outcome of a single limiter check.
type Result struct {
	OK         bool          `json:"ok"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
	ResetIn    time.Duration `json:"reset_in"`
	Bypassed   bool          `json:"bypassed"`
}

// Store consumes one token from the bucket at key, refilling first. It
// returns the token count left after the decision and whether the take
// succeeded. Implementations must be atomic per key.
type Store interface {
	Take(ctx context.Context, key string, policy Policy) (tokens float64, allowed bool, err error)
}

// Limiter checks requests against a token-bucket policy.
type Limiter struct {
	policy   Policy
	store    Store
	fallback Store
	log      logger.Logger
}

// New creates a limiter for the given policy. Without options it runs
// purely in memory.
func New(policy Policy, opts ...Option) *Limiter {
	l := &Limiter{
		policy:   policy,
		store:    NewMemoryStore(),
		fallback: NewMemoryStore(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Policy returns the limiter's bucket policy.
func (l *Limiter) Policy() Policy {
	return l.policy
}

// Allow takes one token from the bucket for the resource/identifier pair.
// A store failure falls back to the in-process store so a Redis outage
// never turns into a request outage.
func (l *Limiter) Allow(ctx context.Context, resource, identifier string) Result {
	key := bucketKey(resource, identifier)

	tokens, allowed, err := l.store.Take(ctx, key, l.policy)
	if err != nil {
		metrics.RecordRateLimitFallback()
		if l.log != nil {
			l.log.Warn(ctx, "rate limit store unavailable, using in-process fallback",
				logger.String("resource", resource),
				logger.Error(err),
			)
		}
		tokens, allowed, _ = l.fallback.Take(ctx, key, l.policy)
	}

	if allowed {
		metrics.RecordRateLimitAllowed(resource)
	} else {
		metrics.RecordRateLimitBlocked(resource)
	}

	return l.result(tokens, allowed)
}

// Bypass returns a full-bucket result without touching any store. Used
// for trusted internal callers.
func (l *Limiter) Bypass() Result {
	metrics.RecordRateLimitBypassed()
	return Result{
		OK:        true,
		Limit:     l.policy.Limit,
		Remaining: l.policy.Limit,
		Bypassed:  true,
	}
}

// result derives the caller-facing numbers from the post-decision token
// count. Remaining is the floor of the fractional balance; RetryAfter is
// how long until one whole token exists; ResetIn is how long until the
// bucket is full again.
func (l *Limiter) result(tokens float64, allowed bool) Result {
	rate := l.policy.ratePerMS()

	res := Result{
		OK:        allowed,
		Limit:     l.policy.Limit,
		Remaining: int(math.Floor(tokens)),
	}

	if !allowed && tokens < 1 {
		if rate > 0 {
			res.RetryAfter = time.Duration(math.Ceil((1-tokens)/rate)) * time.Millisecond
		} else {
			// No refill configured; the window itself is the only guidance.
			res.RetryAfter = l.policy.Window
		}
	}
	if deficit := float64(l.policy.Limit) - tokens; deficit > 0 && rate > 0 {
		res.ResetIn = time.Duration(math.Ceil(deficit/rate)) * time.Millisecond
	}

	return res
}

// bucketKey builds the storage key. The identifier is hashed so raw IPs
// and user agents never appear in Redis.
func bucketKey(resource, identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return fmt.Sprintf("rate:%s:%s", resource, hex.EncodeToString(sum[:]))
}
