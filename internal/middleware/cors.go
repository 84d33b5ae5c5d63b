package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS creates CORS middleware for the configured frontend origins.
// Preflight responses are cached for 24 hours.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler
}
