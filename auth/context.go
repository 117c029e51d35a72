package auth

import (
	"context"
)

// AuthUser is the minimal identity view attached to the request context by
// the authorization middleware for downstream handlers.
type AuthUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// IsAdmin reports whether the acting identity holds the administrator role.
func (u *AuthUser) IsAdmin() bool {
	return u.Role == "ADMIN"
}

type contextKey string

const userContextKey contextKey = "auth_user"

// NewContextWithUser returns a child context carrying the acting identity.
func NewContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the acting identity set by the middleware. The
// second return value is false when the request was not authorized.
func UserFromContext(ctx context.Context) (*AuthUser, bool) {
	user, ok := ctx.Value(userContextKey).(*AuthUser)
	return user, ok
}
