package middleware

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
)

// ContextKey is a private type for request context keys.
type ContextKey string

const (
	// UserCtxKey holds the *domain.User of the current session.
	UserCtxKey = ContextKey("user")
)

func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, UserCtxKey, user)
}

// CurrentUser returns the session user, or nil when the request is anonymous.
func CurrentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(UserCtxKey).(*domain.User)
	return user
}
