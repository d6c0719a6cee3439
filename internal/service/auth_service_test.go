package service

import (
	"context"
	"testing"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/serviceerrors"
	"go-inventory-ledger/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixture) AuthService {
	return NewAuthService(f.users, jwt.NewManager("test-secret", time.Hour, "test"))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	staff := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	svc := newAuthService(f)

	resp, err := svc.Login(ctx, "staff@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, staff.ID, resp.User.ID)
	assert.Equal(t, []string{model.CapManageStock}, resp.Privileges)

	user, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, user.ID)

	_, err = svc.Login(ctx, "staff@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_SecondLoginRevokesFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	svc := newAuthService(f)

	first, err := svc.Login(ctx, "staff@example.com", "password123")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "staff@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, first.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = svc.ValidateToken(ctx, second.Token)
	assert.NoError(t, err)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)

	_, err := newAuthService(f).Login(ctx, "staff@example.com", "password123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "staff@example.com", model.RoleWarehouseStaff)
	svc := newAuthService(f)

	session, err := svc.Login(ctx, "staff@example.com", "password123")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordInput{Email: "staff@example.com", OldPassword: "nope", NewPassword: "newpass1"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ResetPassword(ctx, ResetPasswordInput{Email: "staff@example.com", OldPassword: "password123", NewPassword: "123"})
	assert.True(t, serviceerrors.IsOfKind(err, serviceerrors.KindInvalidArgument))

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordInput{Email: "staff@example.com", OldPassword: "password123", NewPassword: "newpass1"}))

	_, err = svc.ValidateToken(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, err = svc.Login(ctx, "staff@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "staff@example.com", "newpass1")
	assert.NoError(t, err)
}

func TestSeedDefaults_CreatesAdminOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := config.SeedConfig{AdminEmail: "admin@example.com", AdminPassword: "admin123"}

	require.NoError(t, SeedDefaults(ctx, f.privileges, f.roles, f.users, seed))
	require.NoError(t, SeedDefaults(ctx, f.privileges, f.roles, f.users, seed))

	users, err := f.users.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.RoleAdmin, users[0].RoleCode())
	assert.Len(t, users[0].GetPrivilegeCodes(), len(model.DefaultPrivileges))

	roles, err := f.roles.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(model.DefaultRoles))
}
