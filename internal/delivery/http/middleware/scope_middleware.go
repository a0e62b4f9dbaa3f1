package middleware

import (
	"net/http"

	"account-service/pkg/response"

	"github.com/samber/lo"
)

// RequireScope lets the request through when the token carries any of the
// given scopes. Scopes are read from context (set by AuthMiddleware).
func RequireScope(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scopes, ok := GetScopesFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Scope information not found")
				return
			}

			if !lo.Some(scopes, allowed) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
