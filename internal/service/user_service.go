package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/internal/storage"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// UserService coordinates account management flows.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	avatars    storage.AvatarStore
	dispatcher events.Dispatcher
	bcryptCost int
}

// UserDependencies encapsulates collaborator requirements for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	RoleRepo   repository.RoleRepository
	Avatars    storage.AvatarStore
	Dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(bcryptCost int, deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		avatars:    deps.Avatars,
		dispatcher: deps.Dispatcher,
		bcryptCost: bcryptCost,
	}
}

// List returns a page of accounts with the total count.
func (s *UserService) List(ctx context.Context, page, perPage int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return s.users.List(ctx, page, perPage)
}

// Get loads an account by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// Create adds an account with the given role codes (administrative path).
func (s *UserService) Create(ctx context.Context, actorID, name, email, password string, roleCodes []string) (*domain.User, error) {
	codes, err := s.resolveRoleCodes(ctx, roleCodes)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		codes = []string{DefaultRoleCode}
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
		RoleCodes:    codes,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, actorID, events.UserRegisteredPayload{
		Email:     user.Email,
		RoleCodes: user.RoleCodes,
	})
	return user, nil
}

// UserUpdate carries optional account mutations; nil fields stay untouched.
type UserUpdate struct {
	Name   *string
	Email  *string
	Status *domain.UserStatus
}

// Update applies the mutation to an account.
func (s *UserService) Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Status != nil {
		switch *update.Status {
		case domain.UserStatusActive, domain.UserStatusSuspended:
			user.Status = *update.Status
		default:
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *update.Status})
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}
	return user, nil
}

// Delete removes an account and its stored avatar.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if user.AvatarKey != "" && s.avatars != nil {
		_ = s.avatars.Remove(ctx, user.AvatarKey)
	}

	s.publish(ctx, events.EventUserDeleted, id, actorID, nil)
	return nil
}

// AssignRoles replaces the account's role codes. Every code must name an
// existing role; the permission set follows the roles on the next check.
func (s *UserService) AssignRoles(ctx context.Context, actorID, id string, roleCodes []string) (*domain.User, error) {
	codes, err := s.resolveRoleCodes(ctx, roleCodes)
	if err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.RoleCodes = codes
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRolesAssigned, id, actorID, events.RolesAssignedPayload{RoleCodes: codes})
	return user, nil
}

// UpdateAvatar stores a new profile picture and records its location.
func (s *UserService) UpdateAvatar(ctx context.Context, id, filename, contentType string, size int64, r io.Reader) (*domain.User, error) {
	if s.avatars == nil {
		return nil, apperrors.NewInternalError(errors.New("avatar storage not configured"))
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("users/%s/%s%s", id, uuid.NewString(), path.Ext(filename))
	url, err := s.avatars.Put(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}

	oldKey := user.AvatarKey
	user.AvatarKey = key
	user.AvatarURL = url
	if err := s.users.Update(ctx, user); err != nil {
		_ = s.avatars.Remove(ctx, key)
		return nil, err
	}
	if oldKey != "" {
		_ = s.avatars.Remove(ctx, oldKey)
	}

	s.publish(ctx, events.EventAvatarUpdated, id, id, events.AvatarUpdatedPayload{ObjectKey: key})
	return user, nil
}

func (s *UserService) resolveRoleCodes(ctx context.Context, roleCodes []string) ([]string, error) {
	codes := make([]string, 0, len(roleCodes))
	for _, code := range roleCodes {
		normalized := domain.NormalizeRoleCode(code)
		if !domain.ValidRoleCode(normalized) {
			return nil, apperrors.NewValidationError("invalid role code", map[string]any{"code": code})
		}
		if _, err := s.roles.GetByCode(ctx, normalized); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("unknown role code", map[string]any{"code": normalized})
			}
			return nil, err
		}
		codes = append(codes, normalized)
	}
	return codes, nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, subjectID, actorID string, payload interface{}) {
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
