package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/planwise/planwise/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserContextKey returns the key the authenticated user is stored under.
// Exposed so tests can inject values of the wrong type.
func UserContextKey() contextKey { return userContextKey }

// ClientIP resolves the caller's address for rate limiting. Proxy headers
// win over RemoteAddr since the service runs behind a reverse proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, or nil when the request
// never passed through the user middleware.
func UserFromContext(r *http.Request) *models.User {
	u, _ := r.Context().Value(userContextKey).(*models.User)
	return u
}
