package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/internal/token"
	"github.com/Petroslyros/musical-instrument-shop/types"
)

type contextKey string

const contextIdentityKey contextKey = "identity"

// IdentityFromContext returns the authenticated user attached by
// Authenticate, if any.
func IdentityFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextIdentityKey).(types.User)
	return user, ok
}

// AuthMiddleware resolves bearer tokens into identities on every
// request that carries one.
type AuthMiddleware struct {
	codec *token.Codec
	users *services.UserService
}

func NewAuthMiddleware(codec *token.Codec, users *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users}
}

// Authenticate validates an Authorization: Bearer token when present
// and attaches the resolved identity to the request context. Requests
// without a bearer header pass through anonymous; later RequireIdentity
// or RequireAdmin checks reject them if the route needs an identity.
//
// The subject is re-resolved against the user store on every request so
// tokens of deleted accounts stop working before they expire. Rotated
// credentials do not revoke outstanding tokens; they stay valid until
// their expiry.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := m.codec.Verify(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrExpired):
				writeError(w, http.StatusUnauthorized, "expired token")
			case errors.Is(err, token.ErrMalformed):
				writeError(w, http.StatusUnauthorized, "invalid token")
			default:
				writeError(w, http.StatusForbidden, "forbidden")
			}
			return
		}

		user, err := m.users.GetByUsername(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// User deleted after the token was issued.
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		if user.Username != claims.Subject {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), contextIdentityKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity rejects anonymous requests.
func (m *AuthMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose identity is not an ADMIN.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if user.Role != types.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
