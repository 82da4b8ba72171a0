package auth

import (
	"context"
	"strconv"

	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

// RequireIdentity fails with NOT_AUTHORIZED for anonymous callers.
func RequireIdentity(ctx context.Context) (model.SafeUser, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return model.SafeUser{}, apierror.NotAuthorized("authentication required")
	}
	return identity, nil
}

// RequireOwner fails unless identity owns the resource. The admin flag grants
// nothing here.
func RequireOwner(identity model.SafeUser, ownerID int) error {
	if identity.ID <= 0 || identity.ID != ownerID {
		return apierror.NotAuthorized("resource owned by another user")
	}
	return nil
}

func RequireAdmin(identity model.SafeUser) error {
	if !identity.IsAdmin {
		return apierror.NotAuthorized("admin role required (user " + strconv.Itoa(identity.ID) + ")")
	}
	return nil
}
