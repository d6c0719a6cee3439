package service

import (
	"context"
	"errors"

	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/serviceerrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Authorizer decides whether a user may perform a capability-gated call
type Authorizer interface {
	Authorize(ctx context.Context, userID uuid.UUID, capability string) error
	Capabilities(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
}

type roleAuthorizer struct {
	userRepo repository.UserRepository
}

func NewAuthorizer(userRepo repository.UserRepository) Authorizer {
	return &roleAuthorizer{userRepo: userRepo}
}

func (a *roleAuthorizer) Authorize(ctx context.Context, userID uuid.UUID, capability string) error {
	caps, err := a.Capabilities(ctx, userID)
	if err != nil {
		return err
	}
	if !caps[capability] {
		return serviceerrors.NewForbiddenError("missing capability " + capability)
	}
	return nil
}

// Capabilities returns the privilege codes granted through the user's role.
// Missing or inactive users are Forbidden.
func (a *roleAuthorizer) Capabilities(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, serviceerrors.NewForbiddenError("unknown user")
		}
		return nil, serviceerrors.NewStorageError("failed to load user", err)
	}
	if !user.IsActive {
		return nil, serviceerrors.NewForbiddenError("user account is inactive")
	}

	caps := make(map[string]bool)
	for _, code := range user.GetPrivilegeCodes() {
		caps[code] = true
	}
	return caps, nil
}
