package http

import (
	"context"
	"net/http"

	"github.com/freshmart/storefront/internal/identity"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware resolves the caller against the active session. The
// X-User-ID header stands in for JWT validation; swap the header read for
// token parsing when a real identity provider is wired in.
func AuthMiddleware(sessions *identity.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, active := sessions.Current()
			callerID := r.Header.Get("X-User-ID")

			if !active || callerID == "" || callerID != current.ID {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing or mismatched user authentication")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, current)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromContext(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(identity.Identity)
	return id, ok
}
