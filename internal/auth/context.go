package auth

import (
	"context"

	"calchat/internal/database"
)

type contextKey string

// UserContextKey is where the authenticated user lives in a request context.
const UserContextKey contextKey = "auth_user"

// SetUserInContext returns a context carrying the authenticated user.
func SetUserInContext(ctx context.Context, user *database.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext extracts the authenticated user, if any.
func UserFromContext(ctx context.Context) (*database.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*database.User)
	return user, ok && user != nil
}
