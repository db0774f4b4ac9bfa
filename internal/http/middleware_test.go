package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freshmart/storefront/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authProbe(sessions *identity.Sessions) (http.Handler, *identity.Identity) {
	var seen identity.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityFromContext(r.Context())
		if ok {
			seen = id
		}
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(sessions)(inner), &seen
}

func TestAuthMiddleware_NoActiveSession(t *testing.T) {
	handler, _ := authProbe(identity.NewSessions())

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	sessions := identity.NewSessions()
	sessions.Activate(identity.Identity{ID: "alice", Role: identity.RoleUser})
	handler, _ := authProbe(sessions)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MismatchedCaller(t *testing.T) {
	sessions := identity.NewSessions()
	sessions.Activate(identity.Identity{ID: "alice", Role: identity.RoleUser})
	handler, _ := authProbe(sessions)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User-ID", "bob")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MatchedCallerPassesIdentity(t *testing.T) {
	sessions := identity.NewSessions()
	sessions.Activate(identity.Identity{ID: "alice", Role: identity.RoleSeller})
	handler, seen := authProbe(sessions)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User-ID", "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", seen.ID)
	assert.Equal(t, identity.RoleSeller, seen.Role)
}
