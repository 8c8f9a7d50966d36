package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/loadout/internal/adapters/ratelimit"
	"github.com/okian/loadout/pkg/metrics"
)

// HTTP status code constants.
const (
	statusBadRequest      = 400
	statusNotFound        = 404
	statusTooManyRequests = 429
	statusInternalError   = 500
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

		if wrapped.statusCode >= statusBadRequest {
			metrics.RecordErrorByComponent("http", getErrorType(wrapped.statusCode))
		}
	}
}

// RateLimitConfig controls the rate limit middleware.
type RateLimitConfig struct {
	// Paths are the URL prefixes the limiter guards.
	Paths []string

	// BypassToken lets trusted internal callers skip the limiter via the
	// X-Internal-Token header. Empty disables bypass.
	BypassToken string
}

// RateLimitMiddleware applies the token-bucket limiter to GET requests on
// the configured path prefixes. Denied requests receive 429 with standard
// X-RateLimit and Retry-After headers.
func RateLimitMiddleware(next http.Handler, limiter *ratelimit.Limiter, cfg RateLimitConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !limitedPath(cfg.Paths, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var res ratelimit.Result
		if cfg.BypassToken != "" && r.Header.Get("X-Internal-Token") == cfg.BypassToken {
			res = limiter.Bypass()
		} else {
			res = limiter.Allow(r.Context(), resourceName(r.URL.Path), ratelimit.IdentifierFromRequest(r))
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.Itoa(ceilSeconds(res.ResetIn)))

		if !res.OK {
			w.Header().Set("Retry-After", strconv.Itoa(ceilSeconds(res.RetryAfter)))
			writeError(w, http.StatusTooManyRequests, "rate_limited",
				fmt.Errorf("rate limit exceeded; retry in %s", res.RetryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func limitedPath(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// resourceName turns a request path into a stable metrics/bucket label.
func resourceName(path string) string {
	trimmed := strings.Trim(strings.TrimPrefix(path, "/api"), "/")
	if trimmed == "" {
		return "root"
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusTooManyRequests:
		return "rate_limit"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
