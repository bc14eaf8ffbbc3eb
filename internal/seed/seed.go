package seed

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/repository"
	apperrors "github.com/spec-kit/identity-service/pkg/util"
)

const adminRoleCode = "ADMIN"

// Run seeds baseline roles and, when configured, a bootstrap admin account.
// Seeding is idempotent: existing documents are left alone.
func Run(ctx context.Context, cfg config.Config, users repository.UserRepository, roles repository.RoleRepository, logger *zap.Logger) error {
	baseline := []domain.Role{
		{
			Code:        adminRoleCode,
			Name:        "Administrator",
			Permissions: domain.AllPermissions(),
			Active:      true,
		},
		{
			Code:        "USER",
			Name:        "Standard user",
			Permissions: []string{domain.PermUserReadSelf, domain.PermUserUpdateSelf},
			Active:      true,
		},
	}

	for i := range baseline {
		if _, err := roles.GetByCode(ctx, baseline[i].Code); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if err := roles.Create(ctx, &baseline[i]); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
		logger.Info("seeded role", zap.String("code", baseline[i].Code))
	}

	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		return nil
	}

	if _, err := users.GetByEmail(ctx, cfg.Seed.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         "Administrator",
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
		RoleCodes:    []string{adminRoleCode},
	}
	if err := users.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
		return err
	}

	logger.Info("seeded admin account", zap.String("email", cfg.Seed.AdminEmail))
	return nil
}
