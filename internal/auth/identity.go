package auth

import (
	"context"

	"github.com/hongminglow/library-be/internal/models"
)

// Identity is the caller resolved from a verified bearer token.
type Identity struct {
	Username string
	Roles    []string
}

// HasRole reports whether the identity carries role.
func (i Identity) HasRole(role string) bool {
	return models.HasRole(i.Roles, role)
}

// IsAdmin is shorthand for HasRole(models.RoleAdmin).
func (i Identity) IsAdmin() bool {
	return i.HasRole(models.RoleAdmin)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.Username != ""
}
