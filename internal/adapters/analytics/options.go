package analytics

import (
	"net/http"
	"time"

	"github.com/okian/loadout/pkg/logger"
)

// Default emitter configuration constants.
const (
	defaultBufferSize     = 1024
	defaultRequestTimeout = 5 * time.Second
)

// Option applies a configuration option to the AsyncEmitter.
type Option func(*AsyncEmitter)

// WithBufferSize bounds the in-flight event queue.
func WithBufferSize(size int) Option {
	return func(e *AsyncEmitter) {
		if size > 0 {
			e.bufferSize = size
		}
	}
}

// WithHTTPClient replaces the HTTP client used for delivery.
func WithHTTPClient(client *http.Client) Option {
	return func(e *AsyncEmitter) {
		if client != nil {
			e.client = client
		}
	}
}

// WithLogger sets a custom logger for the emitter.
func WithLogger(log logger.Logger) Option {
	return func(e *AsyncEmitter) {
		if log != nil {
			e.log = log
		}
	}
}
