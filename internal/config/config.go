// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RedisAddr points at the shared key-value store used by the rate
	// limiter and the session cache. Empty means in-memory only.
	RedisAddr string `koanf:"redis_addr"`

	// RedisPassword is the optional password for the shared store.
	RedisPassword string `koanf:"redis_password"`

	// AnalyticsEndpoint receives fire-and-forget analytics events.
	// Empty disables emission.
	AnalyticsEndpoint string `koanf:"analytics_endpoint"`

	// AnalyticsBuffer bounds the in-flight analytics event queue.
	AnalyticsBuffer int `koanf:"analytics_buffer"`

	// RateLimitRequests is the token bucket capacity per window.
	RateLimitRequests int `koanf:"rate_limit_requests"`

	// RateLimitWindowMS is the bucket refill interval in milliseconds.
	RateLimitWindowMS int `koanf:"rate_limit_window_ms"`

	// RateLimitedPaths lists GET path prefixes guarded by the limiter.
	RateLimitedPaths []string `koanf:"rate_limited_paths"`

	// RateLimitBypassToken, when matched by the X-Internal-Token header,
	// skips rate limiting for trusted internal callers.
	RateLimitBypassToken string `koanf:"rate_limit_bypass_token"`

	// SessionTTLMinutes bounds how long recommendation sessions stay
	// addressable by the feedback endpoint.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// SessionCacheSize bounds the in-memory session cache fallback.
	SessionCacheSize int `koanf:"session_cache_size"`

	// MaxResults caps the number of ranked decks returned per request.
	MaxResults int `koanf:"max_results"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		RedisAddr:         "",
		RedisPassword:     "",
		AnalyticsEndpoint: "",
		AnalyticsBuffer:   1024,
		RateLimitRequests: 60,
		RateLimitWindowMS: 60_000,
		RateLimitedPaths: []string{
			"/api/decks",
		},
		RateLimitBypassToken: "",
		SessionTTLMinutes:    30,
		SessionCacheSize:     10_000,
		MaxResults:           3,
	}
}
