package middleware

import (
	"context"

	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
	ctxEmail  contextKey = "email"
)

// Identity is the authenticated caller resolved from the access token.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
}

func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

// IdentityFromContext returns the caller and whether the request is authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id := UserIDFromContext(ctx)
	if id == uuid.Nil {
		return Identity{}, false
	}
	email, _ := ctx.Value(ctxEmail).(string)
	return Identity{UserID: id, Email: email, Role: RoleFromContext(ctx)}, true
}

// WithIdentity injects the caller into the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, identity.UserID)
	ctx = context.WithValue(ctx, ctxRole, identity.Role)
	return context.WithValue(ctx, ctxEmail, identity.Email)
}
