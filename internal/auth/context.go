package auth

import (
	"context"

	"quiz-backend/internal/model"
)

type identityContextKey struct{}

// ContextWithIdentity attaches the authenticated identity to ctx.
func ContextWithIdentity(ctx context.Context, identity model.SafeUser) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &identity)
}

// IdentityFromContext returns the identity attached by the guard, if any.
func IdentityFromContext(ctx context.Context) (model.SafeUser, bool) {
	if ctx == nil {
		return model.SafeUser{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*model.SafeUser)
	if !ok || v == nil {
		return model.SafeUser{}, false
	}
	return *v, true
}
