package middleware

import (
	"context"

	"github.com/planwise/planwise/internal/models"
)

// SetUserInContext sets the user in the context. Exported so handler tests
// can build authenticated requests without going through the middleware.
func SetUserInContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
