package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-taskhub/taskhub/internal/engine/errs"
	"github.com/go-taskhub/taskhub/internal/engine/model"
	httpx "github.com/go-taskhub/taskhub/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture()

	_, err := f.userSvc.Register(&model.RegisterReq{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = f.userSvc.Register(&model.RegisterReq{
		Username: "alice",
		Email:    "alice2@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestRegister_DefaultsToMemberRole(t *testing.T) {
	f := newFixture()

	resp, err := f.userSvc.Register(&model.RegisterReq{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SystemRoleMember, resp.SystemRole)
	assert.Equal(t, model.UserStatusActive, resp.Status)
}

func TestChangeSystemRole_LastAdminProtected(t *testing.T) {
	f := newFixture()
	admin := f.addUser("root", model.SystemRoleAdmin, model.UserStatusActive)

	_, err := f.userSvc.ChangeSystemRole(admin, "root", &model.ChangeSystemRoleReq{SystemRole: model.SystemRoleMember})
	require.Error(t, err)
	assert.True(t, errs.IsInvariantViolation(err))

	// with a second admin the demotion goes through
	f.addUser("root2", model.SystemRoleAdmin, model.UserStatusActive)
	resp, err := f.userSvc.ChangeSystemRole(admin, "root", &model.ChangeSystemRoleReq{SystemRole: model.SystemRoleMember})
	require.NoError(t, err)
	assert.Equal(t, model.SystemRoleMember, resp.SystemRole)
}

func TestDeactivateUser_LastAdminProtected(t *testing.T) {
	f := newFixture()
	admin := f.addUser("root", model.SystemRoleAdmin, model.UserStatusActive)
	f.addUser("bob", model.SystemRoleMember, model.UserStatusActive)

	err := f.userSvc.DeactivateUser(admin, "root")
	require.Error(t, err)
	assert.True(t, errs.IsInvariantViolation(err))

	require.NoError(t, f.userSvc.DeactivateUser(admin, "bob"))
	bob, _ := f.users.GetUserById("bob")
	assert.Equal(t, model.UserStatusSuspended, bob.Status)
}

func TestDeactivateUser_RequiresSystemAdmin(t *testing.T) {
	f := newFixture()
	plain := f.addUser("plain", model.SystemRoleMember, model.UserStatusActive)
	f.addUser("bob", model.SystemRoleMember, model.UserStatusActive)

	err := f.userSvc.DeactivateUser(plain, "bob")
	require.Error(t, err)
	assert.True(t, errs.IsAccessDenied(err))
}

func TestLoginLogout(t *testing.T) {
	f := newFixture()
	auth := &httpx.Auth{SecretKey: "test-secret", AccessExpire: 30, RefreshExpire: 60}

	_, err := f.userSvc.Register(&model.RegisterReq{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = f.authSvc.Login(ctx, &model.LoginReq{Username: "alice", Password: "wrong"}, auth)
	require.Error(t, err)
	assert.Equal(t, errs.KindAuthenticationRequired, errs.KindOf(err))

	resp, err := f.authSvc.Login(ctx, &model.LoginReq{Username: "alice", Password: "correct-horse"}, auth)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token["accessToken"])
	assert.NotEmpty(t, resp.Token["refreshToken"])

	userId := resp.UserInfo.UserId
	stored, err := f.tokens.GetTokenInfo(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, resp.Token["accessToken"], stored.AccessToken)
	assert.Greater(t, stored.ExpireAt, time.Now().Unix())

	require.NoError(t, f.authSvc.Logout(ctx, userId))
	_, err = f.tokens.GetTokenInfo(ctx, userId)
	assert.Error(t, err)
}

func TestLogin_SuspendedAccount(t *testing.T) {
	f := newFixture()
	auth := &httpx.Auth{SecretKey: "test-secret", AccessExpire: 30, RefreshExpire: 60}

	_, err := f.userSvc.Register(&model.RegisterReq{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	u, err := f.users.GetUserByUsername("alice")
	require.NoError(t, err)
	u.Status = model.UserStatusSuspended

	_, err = f.authSvc.Login(context.Background(), &model.LoginReq{Username: "alice", Password: "correct-horse"}, auth)
	require.Error(t, err)
	assert.Equal(t, errs.KindActorNotActive, errs.KindOf(err))
}
