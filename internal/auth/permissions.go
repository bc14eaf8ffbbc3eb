package auth

import (
	"context"
	"strings"

	"github.com/spec-kit/identity-service/internal/domain"
)

// RoleSource looks up active roles by code. Implemented by the role repository.
type RoleSource interface {
	FindActiveByCodes(ctx context.Context, codes []string) ([]domain.Role, error)
}

// Resolver computes effective permission sets for identities.
type Resolver struct {
	roles RoleSource
}

// NewResolver constructs a resolver over the given role source.
func NewResolver(roles RoleSource) *Resolver {
	return &Resolver{roles: roles}
}

// HasPermission reports whether the identity's active roles grant the required
// permission. The decision is fail-closed: an identity without role codes is
// denied without a lookup, and a lookup failure is denied as well. The
// returned error only exists so the caller can log it; the first value is
// already the final answer.
func (r *Resolver) HasPermission(ctx context.Context, identity domain.Identity, required string) (bool, error) {
	if len(identity.RoleCodes) == 0 {
		return false, nil
	}

	roles, err := r.roles.FindActiveByCodes(ctx, identity.RoleCodes)
	if err != nil {
		return false, err
	}

	required = strings.ToUpper(strings.TrimSpace(required))
	for _, role := range roles {
		for _, perm := range role.Permissions {
			if strings.ToUpper(perm) == required {
				return true, nil
			}
		}
	}
	return false, nil
}
