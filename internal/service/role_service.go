package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// RoleService coordinates role management flows.
type RoleService struct {
	roles      repository.RoleRepository
	dispatcher events.Dispatcher
}

// NewRoleService builds the service.
func NewRoleService(roles repository.RoleRepository, dispatcher events.Dispatcher) *RoleService {
	return &RoleService{roles: roles, dispatcher: dispatcher}
}

// List returns all roles.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

// Get loads a role by code.
func (s *RoleService) Get(ctx context.Context, code string) (*domain.Role, error) {
	role, err := s.roles.GetByCode(ctx, domain.NormalizeRoleCode(code))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("role", map[string]any{"code": code})
		}
		return nil, err
	}
	return role, nil
}

// Create adds a role. Code and permissions are normalized to uppercase.
func (s *RoleService) Create(ctx context.Context, code, name string, permissions []string) (*domain.Role, error) {
	normalized := domain.NormalizeRoleCode(code)
	if !domain.ValidRoleCode(normalized) {
		return nil, apperrors.NewValidationError("role code must match [A-Z_]+", map[string]any{"code": code})
	}

	role := &domain.Role{
		Code:        normalized,
		Name:        name,
		Permissions: domain.NormalizePermissions(permissions),
		Active:      true,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflict("role code already exists", map[string]any{"code": normalized})
		}
		return nil, err
	}
	return role, nil
}

// RoleUpdate carries optional role mutations; nil fields stay untouched.
type RoleUpdate struct {
	Name        *string
	Permissions *[]string
}

// Update applies the mutation to a role.
func (s *RoleService) Update(ctx context.Context, code string, update RoleUpdate) (*domain.Role, error) {
	role, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		role.Name = *update.Name
	}
	if update.Permissions != nil {
		role.Permissions = domain.NormalizePermissions(*update.Permissions)
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// SetActive toggles a role. Deactivation takes effect on the next permission
// check of every identity holding the role; no token reissue involved.
func (s *RoleService) SetActive(ctx context.Context, actorID, code string, active bool) (*domain.Role, error) {
	normalized := domain.NormalizeRoleCode(code)
	if err := s.roles.SetActive(ctx, normalized, active); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("role", map[string]any{"code": code})
		}
		return nil, err
	}

	if !active {
		s.publish(ctx, events.EventRoleDeactivated, normalized, actorID, events.RoleDeactivatedPayload{Code: normalized})
	}
	return s.Get(ctx, normalized)
}

// Delete removes a role.
func (s *RoleService) Delete(ctx context.Context, code string) error {
	normalized := domain.NormalizeRoleCode(code)
	if err := s.roles.Delete(ctx, normalized); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFound("role", map[string]any{"code": code})
		}
		return err
	}
	return nil
}

func (s *RoleService) publish(ctx context.Context, eventType events.EventType, subjectID, actorID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
