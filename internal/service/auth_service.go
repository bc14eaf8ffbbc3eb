package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/repository"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

// DefaultRoleCode is assigned to self-registered accounts.
const DefaultRoleCode = "USER"

// AuthService coordinates registration, login and token lifecycle flows.
type AuthService struct {
	users      repository.UserRepository
	denylist   repository.TokenDenylist
	codec      *auth.TokenCodec
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Denylist   repository.TokenDenylist
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service. The token codec constructor validates the
// auth configuration, so a missing secret or TTL fails here, at startup.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	codec, err := auth.NewTokenCodec(cfg.Auth)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:      deps.UserRepo,
		denylist:   deps.Denylist,
		codec:      codec,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}, nil
}

// Register creates a new account with the default role and issues a token pair.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, *auth.TokenPair, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
		RoleCodes:    []string{DefaultRoleCode},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, nil, err
	}

	pair, err := s.issueFor(user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, "", events.UserRegisteredPayload{
		Email:     user.Email,
		RoleCodes: user.RoleCodes,
	})
	return user, pair, nil
}

// Login authenticates credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *auth.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NewUnauthenticated(apperrors.CodeUnauthenticated, "invalid credentials")
		}
		return nil, nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, apperrors.NewUnauthenticated(apperrors.CodeUnauthenticated, "account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthenticated(apperrors.CodeUnauthenticated, "invalid credentials")
	}

	pair, err := s.issueFor(user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, user.ID, events.UserLoggedInPayload{Email: user.Email})
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked, the account
// reloaded so role changes since login take effect, and a fresh pair issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *auth.TokenPair, error) {
	claims, err := s.codec.ParseRefresh(refreshToken)
	if err != nil {
		return nil, nil, apperrors.NewUnauthenticated(auth.FailureCode(err), auth.FailureMessage(err))
	}

	denied, err := s.denylist.IsDenied(ctx, claims.ID)
	if err != nil || denied {
		// Revoked, or the revocation store is unreachable. Fail closed.
		return nil, nil, apperrors.NewUnauthenticated(apperrors.CodeTokenInvalid, "refresh token revoked")
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.NewUnauthenticated(apperrors.CodeTokenInvalid, "account no longer exists")
		}
		return nil, nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, apperrors.NewUnauthenticated(apperrors.CodeUnauthenticated, "account suspended")
	}

	if err := s.denylist.Deny(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueFor(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Logout revokes the presented refresh token for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.codec.ParseRefresh(refreshToken)
	if err != nil {
		return apperrors.NewUnauthenticated(auth.FailureCode(err), auth.FailureMessage(err))
	}
	return s.denylist.Deny(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// Codec exposes the token codec for middleware wiring.
func (s *AuthService) Codec() *auth.TokenCodec {
	return s.codec
}

func (s *AuthService) issueFor(user *domain.User) (*auth.TokenPair, error) {
	pair, err := s.codec.Issue(domain.Identity{
		SubjectID: user.ID,
		Email:     user.Email,
		RoleCodes: user.RoleCodes,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPayload) {
			return nil, apperrors.NewForbidden("account has no assigned roles", nil)
		}
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subjectID, actorID string, payload interface{}) {
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
