package authz

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

type AuthUser struct {
	ID   int64
	Role string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdmin reports whether the given AuthUser carries an administrative role.
func IsAdmin(user *AuthUser) bool {
	if user == nil {
		return false
	}
	return strings.EqualFold(user.Role, RoleAdmin) || strings.EqualFold(user.Role, RoleSuperAdmin)
}

// RequireUser returns ErrUnauthenticated when no user is present in ctx.
func RequireUser(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireRole checks that the context user holds one of the given roles.
// Superadmins satisfy an "admin" requirement.
func RequireRole(ctx context.Context, roles ...string) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}

	for _, role := range roles {
		if strings.EqualFold(user.Role, role) {
			return nil
		}
		if strings.EqualFold(role, RoleAdmin) && IsAdmin(user) {
			return nil
		}
	}

	return ErrForbidden
}
