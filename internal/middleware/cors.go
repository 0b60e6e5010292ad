package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// DefaultCORSAllowedMethods is the default set of methods allowed for CORS.
var DefaultCORSAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}

// DefaultCORSAllowedHeaders is the default set of request headers allowed for CORS.
var DefaultCORSAllowedHeaders = []string{"Accept", "Authorization", "Content-Type"}

// CORS allows cross-origin calls from origins. With no origins the
// middleware is a no-op and browsers fall back to same-origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   DefaultCORSAllowedMethods,
		AllowedHeaders:   DefaultCORSAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler
}
