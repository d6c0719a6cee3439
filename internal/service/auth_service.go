package service

import (
	"context"
	"errors"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/serviceerrors"
	"go-inventory-ledger/pkg/jwt"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionExpired     = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
	ValidateToken(ctx context.Context, tokenString string) (*model.User, error)
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, serviceerrors.NewStorageError("failed to load user", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a new version invalidates tokens issued earlier.
	tokenVersion := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, tokenVersion); err != nil {
		return nil, serviceerrors.NewStorageError("failed to update session", err)
	}
	user.TokenVersion = tokenVersion

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, user.RoleCode(), tokenVersion)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to generate token", err)
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", user.RoleCode()).Msg("user logged in")

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := validator.Validate(in); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return repoError(err, "user not found", "failed to load user")
	}
	if !user.CheckPassword(in.OldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(in.NewPassword); err != nil {
		return serviceerrors.NewStorageError("failed to hash new password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return serviceerrors.NewStorageError("failed to update password", err)
	}
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.New().String()); err != nil {
		return serviceerrors.NewStorageError("failed to revoke sessions", err)
	}
	return nil
}

// ValidateToken verifies the JWT and checks it against the stored session.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, serviceerrors.NewStorageError("failed to load user", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	return user, nil
}
