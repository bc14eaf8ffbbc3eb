package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

func TestRoleCreateNormalizes(t *testing.T) {
	svc := NewRoleService(newFakeRoleRepo(), nil)

	role, err := svc.Create(context.Background(), "auditor", "Auditor", []string{"user_read", "USER_READ", "user_read_self"})
	require.NoError(t, err)
	assert.Equal(t, "AUDITOR", role.Code)
	assert.Equal(t, []string{"USER_READ", "USER_READ_SELF"}, role.Permissions)
	assert.True(t, role.Active)
}

func TestRoleCreateRejectsInvalidCode(t *testing.T) {
	svc := NewRoleService(newFakeRoleRepo(), nil)

	_, err := svc.Create(context.Background(), "role-1", "Bad", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.ToDomainError(err).Code)
}

func TestRoleCreateDuplicate(t *testing.T) {
	repo := newFakeRoleRepo(domain.Role{Code: "USER", Active: true})
	svc := NewRoleService(repo, nil)

	_, err := svc.Create(context.Background(), "USER", "User", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.ToDomainError(err).Code)
}

func TestRoleUpdateReplacesPermissions(t *testing.T) {
	repo := newFakeRoleRepo(domain.Role{Code: "USER", Name: "User", Permissions: []string{"USER_READ_SELF"}, Active: true})
	svc := NewRoleService(repo, nil)

	perms := []string{"user_read_self", "user_update_self"}
	role, err := svc.Update(context.Background(), "USER", RoleUpdate{Permissions: &perms})
	require.NoError(t, err)
	assert.Equal(t, []string{"USER_READ_SELF", "USER_UPDATE_SELF"}, role.Permissions)
}

func TestRoleDeactivatePublishesEvent(t *testing.T) {
	repo := newFakeRoleRepo(domain.Role{Code: "USER", Active: true})
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewRoleService(repo, dispatcher)

	var captured []events.Event
	dispatcher.Subscribe(events.EventRoleDeactivated, func(_ context.Context, event events.Event) error {
		captured = append(captured, event)
		return nil
	})

	role, err := svc.SetActive(context.Background(), "admin-1", "user", false)
	require.NoError(t, err)
	assert.False(t, role.Active)
	require.Len(t, captured, 1)
	assert.Equal(t, "USER", captured[0].SubjectID)

	// Reactivation publishes nothing.
	role, err = svc.SetActive(context.Background(), "admin-1", "USER", true)
	require.NoError(t, err)
	assert.True(t, role.Active)
	assert.Len(t, captured, 1)
}

func TestRoleGetMissing(t *testing.T) {
	svc := NewRoleService(newFakeRoleRepo(), nil)

	_, err := svc.Get(context.Background(), "GHOST")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.ToDomainError(err).Code)
}
