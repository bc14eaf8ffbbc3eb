package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/domain"
)

type fakeRoleSource struct {
	roles map[string]domain.Role
	err   error
	calls int
}

func (f *fakeRoleSource) FindActiveByCodes(_ context.Context, codes []string) ([]domain.Role, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Role
	for _, code := range codes {
		if role, ok := f.roles[code]; ok && role.Active {
			out = append(out, role)
		}
	}
	return out, nil
}

func TestHasPermission(t *testing.T) {
	source := &fakeRoleSource{roles: map[string]domain.Role{
		"USER":  {Code: "USER", Permissions: []string{"USER_READ_SELF"}, Active: true},
		"ADMIN": {Code: "ADMIN", Permissions: []string{"USER_READ", "USER_DELETE"}, Active: true},
	}}
	resolver := NewResolver(source)
	identity := domain.Identity{SubjectID: "u1", RoleCodes: []string{"USER"}}

	t.Run("granted through an active role", func(t *testing.T) {
		allowed, err := resolver.HasPermission(context.Background(), identity, "USER_READ_SELF")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("required permission is case-normalized", func(t *testing.T) {
		allowed, err := resolver.HasPermission(context.Background(), identity, "user_read_self")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("denied when no role grants it", func(t *testing.T) {
		allowed, err := resolver.HasPermission(context.Background(), identity, "USER_DELETE")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("union across multiple roles", func(t *testing.T) {
		multi := domain.Identity{SubjectID: "u2", RoleCodes: []string{"USER", "ADMIN"}}
		allowed, err := resolver.HasPermission(context.Background(), multi, "USER_DELETE")
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestHasPermissionEmptyRolesSkipsLookup(t *testing.T) {
	source := &fakeRoleSource{}
	resolver := NewResolver(source)

	allowed, err := resolver.HasPermission(context.Background(), domain.Identity{SubjectID: "u1"}, "USER_READ")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, source.calls)
}

func TestHasPermissionFailsClosedOnLookupError(t *testing.T) {
	source := &fakeRoleSource{err: errors.New("store down")}
	resolver := NewResolver(source)
	identity := domain.Identity{SubjectID: "u1", RoleCodes: []string{"USER"}}

	allowed, err := resolver.HasPermission(context.Background(), identity, "USER_READ")
	assert.False(t, allowed)
	assert.Error(t, err)
}

func TestDeactivatingRoleRevokesWithoutReissue(t *testing.T) {
	source := &fakeRoleSource{roles: map[string]domain.Role{
		"USER": {Code: "USER", Permissions: []string{"USER_READ_SELF"}, Active: true},
	}}
	resolver := NewResolver(source)
	identity := domain.Identity{SubjectID: "u1", RoleCodes: []string{"USER"}}

	allowed, err := resolver.HasPermission(context.Background(), identity, "USER_READ_SELF")
	require.NoError(t, err)
	require.True(t, allowed)

	role := source.roles["USER"]
	role.Active = false
	source.roles["USER"] = role

	allowed, err = resolver.HasPermission(context.Background(), identity, "USER_READ_SELF")
	require.NoError(t, err)
	assert.False(t, allowed)
}
