package token

import (
	"context"
	"errors"
)

type ctxKey int

const ctxIdentity ctxKey = iota

// WithIdentity stores the verified identity on the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

// IdentityFrom returns the verified identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxIdentity).(Identity)
	return id, ok && id.UID != ""
}

// UID returns the authenticated user id from context.
func UID(ctx context.Context) (string, error) {
	if id, ok := IdentityFrom(ctx); ok {
		return id.UID, nil
	}
	return "", errors.New("uid not in context")
}

// Role returns the authenticated role from context.
func Role(ctx context.Context) (string, error) {
	if id, ok := IdentityFrom(ctx); ok {
		return id.Role, nil
	}
	return "", errors.New("role not in context")
}
