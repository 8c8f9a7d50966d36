package ratelimit

import "github.com/okian/loadout/pkg/logger"

// Option applies a configuration option to the Limiter.
type Option func(*Limiter)

// WithStore sets the primary bucket store, typically Redis.
func WithStore(store Store) Option {
	return func(l *Limiter) {
		if store != nil {
			l.store = store
		}
	}
}

// WithFallbackStore sets the store used when the primary errors.
func WithFallbackStore(store Store) Option {
	return func(l *Limiter) {
		if store != nil {
			l.fallback = store
		}
	}
}

// WithLogger sets a custom logger for the limiter.
func WithLogger(log logger.Logger) Option {
	return func(l *Limiter) {
		if log != nil {
			l.log = log
		}
	}
}
