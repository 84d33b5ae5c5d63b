package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/planwise/planwise/internal/database"
	"github.com/planwise/planwise/internal/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the user from the request context
func UserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// UserContext resolves the authenticated user from the X-User-ID header set
// by the trusted gateway in front of this service and attaches it to the
// request context. Requests without a resolvable active user are rejected.
func UserContext(users database.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-User-ID")
			if header == "" {
				respondError(w, http.StatusUnauthorized, "Missing X-User-ID header")
				return
			}

			userID, err := uuid.Parse(header)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Invalid X-User-ID header")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Unknown user")
				return
			}
			if !user.Active {
				respondError(w, http.StatusForbidden, "User is deactivated")
				return
			}

			ctx := SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
