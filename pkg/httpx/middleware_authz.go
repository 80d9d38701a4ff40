package httpx

import (
	"net/http"
	"slices"
)

// RequireRole rejects callers whose session role is not one of roles. It
// must run after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			if !slices.Contains(roles, claims.Role) {
				WriteJSON(w, http.StatusForbidden, ErrorBody{
					Error:            "permission_denied",
					ErrorDescription: "insufficient role",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
