package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/auth"
	"github.com/c0d3sh0rt4g3/FilmSage-Backend/internal/database"
)

func testService(t *testing.T) *Service {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())

	authSvc, err := auth.NewService("test-secret")
	require.NoError(t, err)

	return NewService(db.Conn(), authSvc, zerolog.Nop())
}

func TestRegister(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleUser, user.Role, "role should default to user")
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, token, "registration should issue a token")
}

func TestRegisterDuplicate(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAlreadyExists, "duplicate username")

	_, _, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "alice@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAlreadyExists, "duplicate email")
}

func TestRegisterInvalidRole(t *testing.T) {
	svc := testService(t)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Role:     "superadmin",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "wrong password")

	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "unknown email")
}

func TestLoginDeactivated(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(ctx, user.ID, false))

	_, _, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrDeactivated)
}

func TestUpdate(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	username := "alice2"
	role := RoleReviewer

	// Non-admin callers can change their own fields but not their role.
	updated, err := svc.Update(ctx, user.ID, UpdateInput{Username: &username, Role: &role}, false)
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, RoleUser, updated.Role, "role change requires admin")

	updated, err = svc.Update(ctx, user.ID, UpdateInput{Role: &role}, true)
	require.NoError(t, err)
	assert.Equal(t, RoleReviewer, updated.Role)

	_, err = svc.Update(ctx, 9999, UpdateInput{Username: &username}, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordInput{CurrentPassword: "nope", NewPassword: "newpass1"}, false)
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordInput{CurrentPassword: "secret123", NewPassword: "newpass1"}, false)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "newpass1"})
	assert.NoError(t, err, "new password should work")

	// Admins may reset without the current password.
	err = svc.ChangePassword(ctx, user.ID, ChangePasswordInput{NewPassword: "adminreset"}, true)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err = svc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, user.ID), ErrNotFound)
}

func TestChangeRole(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	updated, err := svc.ChangeRole(ctx, user.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, updated.Role)

	_, err = svc.ChangeRole(ctx, user.ID, "bogus")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.ChangeRole(ctx, 9999, RoleAdmin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		_, _, err := svc.Register(ctx, RegisterInput{Username: name, Email: name + "@example.com", Password: "secret123"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alice", all[0].Username, "ordered by id")
}
