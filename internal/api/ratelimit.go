package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/signbridgeapp/signbridge-server/internal/http/response"
	"github.com/signbridgeapp/signbridge-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// translateBurst lets a client submit a few requests back to back before
// the steady per-minute rate kicks in.
const translateBurst = 5

// NewTranslateRateLimiter creates a per-IP limiter from a
// requests-per-minute budget.
func NewTranslateRateLimiter(rpm int) *RateLimiter {
	return ratelimit.New(float64(rpm)/60.0, translateBurst)
}

// RateLimitMiddleware rate limits requests to paths under pathPrefix by
// client IP. Returns 429 Too Many Requests when the limit is exceeded;
// other paths pass through untouched.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger, pathPrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, pathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				response.TooManyRequests(w, "Too many requests. Please try again later.", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For (may contain multiple IPs, first is client).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}

	// Check X-Real-IP.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
