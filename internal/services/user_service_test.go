package services

import (
	"context"
	"testing"

	"restaurant_web/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserNormalizes(t *testing.T) {
	env := newAuthEnv(t)

	user, err := env.users.Create(context.Background(), CreateUserRequest{
		Name:           "<b>Lina</b>",
		Email:          "Lina@Example.com",
		Password:       "long-enough",
		Role:           models.RoleStaff,
		WhatsAppNumber: "079 123 4567",
	})
	require.NoError(t, err)
	require.Equal(t, "Lina", user.Name)
	require.Equal(t, "lina@example.com", user.Email)
	require.Equal(t, "962791234567", user.WhatsAppNumber)
	require.True(t, user.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long-enough")))

	found, err := env.users.GetByWhatsAppNumber(context.Background(), "+962791234567")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = env.users.GetByWhatsAppNumber(context.Background(), "n/a")
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestCreateUserValidates(t *testing.T) {
	env := newAuthEnv(t)

	_, err := env.users.Create(context.Background(), CreateUserRequest{
		Name:     "Lina",
		Email:    "lina",
		Password: "short",
		Role:     "OWNER",
	})
	svcErr := requireValidation(t, err, "invalid user", "email")
	require.Equal(t, "must be at least 8 characters", svcErr.Fields["password"])
	require.Equal(t, "must be one of ADMIN, STAFF", svcErr.Fields["role"])
}

func TestUserGuards(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	staff := env.createUser(t, "staff@example.com", models.RoleStaff)

	err := env.users.Delete(ctx, admin.ID, admin.ID)
	require.Equal(t, KindForbidden, KindOf(err))
	require.Equal(t, "cannot delete yourself", err.Error())

	_, err = env.users.Update(ctx, admin.ID, admin.ID, UpdateUserRequest{IsActive: boolPtr(false)})
	require.Equal(t, KindForbidden, KindOf(err))

	role := models.RoleStaff
	_, err = env.users.Update(ctx, staff.ID, admin.ID, UpdateUserRequest{Role: &role})
	require.Equal(t, KindConflict, KindOf(err))
	require.Equal(t, "at least one active admin is required", err.Error())

	err = env.users.Delete(ctx, staff.ID, admin.ID)
	require.Equal(t, KindConflict, KindOf(err))

	require.NoError(t, env.users.Delete(ctx, admin.ID, staff.ID))
	_, err = env.users.GetByID(ctx, staff.ID)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestDemoteAdminWhenAnotherExists(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()
	first := env.createUser(t, "first@example.com", models.RoleAdmin)
	second := env.createUser(t, "second@example.com", models.RoleAdmin)

	role := models.RoleStaff
	updated, err := env.users.Update(ctx, first.ID, second.ID, UpdateUserRequest{
		Role: &role,
		Name: strPtr("Second"),
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleStaff, updated.Role)
	require.Equal(t, "Second", updated.Name)

	_, err = env.users.Update(ctx, second.ID, first.ID, UpdateUserRequest{IsActive: boolPtr(false)})
	require.Equal(t, KindConflict, KindOf(err))
}

func TestEnsureAdmin(t *testing.T) {
	env := newAuthEnv(t)
	ctx := context.Background()

	_, err := env.users.EnsureAdmin(ctx, "", "")
	require.Equal(t, KindValidation, KindOf(err))

	created, err := env.users.EnsureAdmin(ctx, "owner@example.com", "owner-password")
	require.NoError(t, err)
	require.True(t, created)

	created, err = env.users.EnsureAdmin(ctx, "other@example.com", "other-password")
	require.NoError(t, err)
	require.False(t, created)

	users, err := env.users.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, models.RoleAdmin, users[0].Role)
}
