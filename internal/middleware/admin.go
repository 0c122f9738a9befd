package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ilix-studio/prapti-foundation-BE/internal/auth"
	"github.com/Ilix-studio/prapti-foundation-BE/internal/transport"
)

// AdminIdentity is the resolved admin attached to the request context. It is
// used for audit logging only; there is a single admin role.
type AdminIdentity struct {
	ID    string
	Name  string
	Email string
}

// AdminLookup resolves a token subject to an admin account. Any error means
// the token references an admin that no longer exists.
type AdminLookup func(ctx context.Context, id string) (AdminIdentity, error)

type adminKey struct{}

func AdminAuth(manager *auth.Manager, lookup AdminLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				transport.WriteError(w, http.StatusUnauthorized, "not authorized, no token", nil)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			claims, err := manager.Parse(token)
			if err != nil || claims.Subject == "" {
				transport.WriteError(w, http.StatusUnauthorized, "not authorized, token failed", nil)
				return
			}

			admin, err := lookup(r.Context(), claims.Subject)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "not authorized, token failed", nil)
				return
			}

			ctx := context.WithValue(r.Context(), adminKey{}, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminFromContext(ctx context.Context) (AdminIdentity, bool) {
	v, ok := ctx.Value(adminKey{}).(AdminIdentity)
	return v, ok
}
