package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const ownerIDKey contextKey = "owner_id"

// ErrOwnerIDNotFound is returned when no owner ID exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrOwnerIDNotFound = errors.New("owner_id not found in context")

// OwnerIDFromCtx extracts the authenticated owner ID from the request context.
// Returns ErrOwnerIDNotFound if no owner is set (unauthenticated request).
func OwnerIDFromCtx(ctx context.Context) (string, error) {
	ownerID, ok := ctx.Value(ownerIDKey).(string)
	if !ok || ownerID == "" {
		return "", ErrOwnerIDNotFound
	}
	return ownerID, nil
}

// WithOwnerID returns a new context with the given owner ID attached.
// Used by authentication middleware after validating the session.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}
