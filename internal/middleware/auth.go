package middleware

import (
	"context"
	"net/http"

	"github.com/crucial707/hrms/internal/auth"
)

type key string

const identityKey key = "identity"

// Authenticate rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, "Access token required", http.StatusUnauthorized)
				return
			}

			id, err := tokens.Verify(raw)
			if err != nil {
				writeError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}
