package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/courseloft/courseloft/pkg/slogx"
	"github.com/courseloft/courseloft/pkg/tokenx"
)

// RequireAuthenticated is stage 1 of the authorization guard. It reads the
// bearer token, verifies it with purpose access, and attaches the resolved
// identity to the request context. Any failure rejects with 401 before the
// handler runs; the three failure kinds stay distinguishable so the client
// can decide whether a refresh attempt makes sense.
func RequireAuthenticated(codec *tokenx.Codec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, ErrorCodeMissingToken, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := codec.Verify(raw, tokenx.PurposeAccess)
			if err != nil {
				switch {
				case errors.Is(err, tokenx.ErrExpired):
					// Normal credential lapse, not a security event.
					writeBearerError(w, ErrorCodeTokenExpired, "access token expired")
				case errors.Is(err, tokenx.ErrMissing):
					writeBearerError(w, ErrorCodeMissingToken, "missing bearer token")
				default:
					writeBearerError(w, ErrorCodeInvalidToken, "token verification failed")
					log.Warn("access token rejected", "err", err)
				}
				return
			}

			ctx = contextWithIdentity(ctx, claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
