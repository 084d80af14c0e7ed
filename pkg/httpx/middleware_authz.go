package httpx

import (
	"net/http"

	"github.com/courseloft/courseloft/pkg/tokenx"
)

// RequireRole is stage 2 of the authorization guard and must run after
// RequireAuthenticated. It rejects with 403 when the attached identity does
// not hold the required role; admin satisfies every requirement.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				// Misconfigured route: stage 2 without stage 1. Fail closed.
				writeBearerError(w, ErrorCodeMissingToken, "missing bearer token")
				return
			}

			if !tokenx.RoleSatisfies(id.Role, role) {
				WriteError(w, http.StatusForbidden, ErrorCodeForbidden, "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
