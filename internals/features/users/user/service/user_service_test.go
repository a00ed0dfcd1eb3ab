package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanops_backend/internals/features/users/user/dto"
	"cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/testsupport"
)

func ptr[T any](v T) *T { return &v }

func TestCreateAndUpdateUser(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewUserService(db, testsupport.Logger())
	ctx := context.Background()

	u, err := svc.Create(ctx, dto.CreateUserRequest{
		Email: "lea@acme.test", Password: "password-123", FirstName: "Lea", LastName: "Martin", Role: model.RoleSupervisor,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, u.Status)
	assert.True(t, CheckPassword(u.PasswordHash, "password-123"))

	_, err = svc.Create(ctx, dto.CreateUserRequest{
		Email: "lea@acme.test", Password: "password-123", FirstName: "Dup", LastName: "Dup", Role: model.RoleAgent,
	})
	assert.Equal(t, 409, helper.StatusOf(err))

	got, err := svc.Update(ctx, u.ID, dto.UpdateUserRequest{Role: ptr(model.RoleManager), Password: ptr("another-pass")})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, got.Role)
	assert.True(t, CheckPassword(got.PasswordHash, "another-pass"))
}

func TestListFiltersAndDelete(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewUserService(db, testsupport.Logger())
	ctx := context.Background()
	admin := testsupport.CreateUser(t, db, "admin@acme.test", model.RoleAdmin)
	agent := testsupport.CreateUser(t, db, "agent@acme.test", model.RoleAgent)
	testsupport.CreateUser(t, db, "agent2@acme.test", model.RoleAgent)

	lq := helper.ListQuery{Page: 1, Limit: 20}.Normalize()
	_, p, err := svc.List(ctx, lq, dto.ListUsersQuery{Role: model.RoleAgent})
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Total)

	assert.Equal(t, 409, helper.StatusOf(svc.Delete(ctx, admin.ID, admin.ID)), "self delete")
	require.NoError(t, svc.Delete(ctx, agent.ID, admin.ID))

	_, p, err = svc.List(ctx, lq, dto.ListUsersQuery{Role: model.RoleAgent})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Total)

	gone, err := svc.Get(ctx, agent.ID)
	require.NoError(t, err)
	assert.True(t, gone.DeletedAt.Valid)

	_, err = svc.Update(ctx, agent.ID, dto.UpdateUserRequest{FirstName: ptr("Back")})
	assert.Equal(t, 404, helper.StatusOf(err))
}
