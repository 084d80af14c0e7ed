package httpx

import (
	"context"

	"github.com/courseloft/courseloft/pkg/tokenx"
)

type ctxKey string

const (
	CtxKeyIdentity ctxKey = "identity"
	CtxKeyUserID   ctxKey = "user_id"
)

func contextWithIdentity(ctx context.Context, id tokenx.Identity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyIdentity, id)
	ctx = context.WithValue(ctx, CtxKeyUserID, id.ID)
	return ctx
}

// IdentityFromContext returns the identity attached by RequireAuthenticated.
// Handlers behind the guard can rely on ok being true; anywhere else it
// reports false.
func IdentityFromContext(ctx context.Context) (tokenx.Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(tokenx.Identity)
	return id, ok
}
