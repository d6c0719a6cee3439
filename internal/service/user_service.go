package service

import (
	"context"
	"errors"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/serviceerrors"
	"go-inventory-ledger/pkg/validator"

	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput, creatorID string) (*model.UserResponse, error)
	ListUsers(ctx context.Context) ([]model.UserResponse, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	RoleID   uint   `json:"role_id" validate:"required"`
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput, creatorID string) (*model.UserResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	_, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, serviceerrors.NewConflictError("email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, serviceerrors.NewStorageError("failed to check email", err)
	}

	if _, err := s.roleRepo.FindByID(ctx, in.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, serviceerrors.NewValidationError("role does not exist",
				[]serviceerrors.FieldError{{Field: "role_id", Tag: "exists"}})
		}
		return nil, serviceerrors.NewStorageError("failed to load role", err)
	}

	user := &model.User{
		Email:    in.Email,
		FullName: in.FullName,
		RoleID:   &in.RoleID,
		IsActive: true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID
	if err := user.SetPassword(in.Password); err != nil {
		return nil, serviceerrors.NewStorageError("failed to hash password", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, insertError(err, "email already exists", "failed to create user")
	}

	created, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, repoError(err, "user not found", "failed to load user")
	}
	response := created.ToResponse()
	return &response, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to list users", err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) ListRoles(ctx context.Context) ([]model.Role, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, serviceerrors.NewStorageError("failed to list roles", err)
	}
	return nonNil(roles), nil
}
