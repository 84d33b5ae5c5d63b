package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a request when the caller passes a
// non-positive timeout.
const DefaultRequestTimeout = 30 * time.Second

// Timeout cancels the request context and writes 503 when a handler runs
// past the deadline. A scheduling run should never take this long; the
// limit protects the pool from a stuck database call.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			http.TimeoutHandler(next, timeout, "Request Timeout").ServeHTTP(w, r)
		})
	}
}
