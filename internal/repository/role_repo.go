package repository

import (
	"context"
	"errors"

	"go-inventory-ledger/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	SeedDefaults(ctx context.Context) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Privileges").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Privileges").Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// SeedDefaults creates missing default roles and grants their default
// privileges to roles that have none yet. Privileges must be seeded first.
func (r *roleRepo) SeedDefaults(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, defaultRole := range model.DefaultRoles {
			var role model.Role
			err := tx.Preload("Privileges").Where("code = ?", defaultRole.Code).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				role = defaultRole
				if err := tx.Create(&role).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			if len(role.Privileges) > 0 {
				continue
			}
			var privileges []model.Privilege
			if err := tx.Where("code IN ?", model.DefaultRolePrivileges[role.Code]).Find(&privileges).Error; err != nil {
				return err
			}
			if err := tx.Model(&role).Association("Privileges").Replace(privileges); err != nil {
				return err
			}
		}
		return nil
	})
}
