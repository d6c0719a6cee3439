package service

import (
	"context"
	"errors"
	"fmt"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SeedDefaults creates the default privileges, roles and an admin user when
// they are missing. It is safe to run on every start.
func SeedDefaults(ctx context.Context, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository, userRepo repository.UserRepository, cfg config.SeedConfig) error {
	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	if cfg.AdminEmail == "" {
		return nil
	}
	_, err := userRepo.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin user: %w", err)
	}

	adminRole, err := roleRepo.FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}

	admin := &model.User{
		Email:    cfg.AdminEmail,
		FullName: "Administrator",
		RoleID:   &adminRole.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Info().Str("email", admin.Email).Msg("default admin user created")
	return nil
}
