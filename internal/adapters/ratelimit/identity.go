package ratelimit

import (
	"net/http"
	"strings"
)

// anonymousIdentifier groups requests that expose no identifying header
// into a single shared bucket.
const anonymousIdentifier = "anonymous"

// IdentifierFromRequest derives the bucket identity for an HTTP request.
// Proxy headers win over the user agent; a request with neither shares
// the anonymous bucket.
func IdentifierFromRequest(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First entry is the original client; the rest are proxies.
		if first, _, found := strings.Cut(fwd, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}

	return anonymousIdentifier
}
