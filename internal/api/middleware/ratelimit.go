// internal/api/middleware/ratelimit.go
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"bithero/pkg/ratelimit"
)

// RateLimit enforces a fixed-window limit per caller on the wrapped routes.
// The subject is the authenticated account when present, the remote address
// otherwise. A failing limiter backend fails open: limiting is a guard on
// read traffic, not a correctness requirement.
func RateLimit(limiter *ratelimit.Limiter, logger *slog.Logger, scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := AccountIDFromContext(r.Context())
			if !ok {
				subject = r.RemoteAddr
			}

			count, retryAfter, err := limiter.Consume(r.Context(), scope, subject, limit, window)
			if err != nil {
				logger.Warn("rate limiter unavailable, failing open", "scope", scope, "error", err)
			} else if count > limit {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
