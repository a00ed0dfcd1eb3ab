package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userDTO "cleanops_backend/internals/features/users/user/dto"
	userModel "cleanops_backend/internals/features/users/user/model"
	userService "cleanops_backend/internals/features/users/user/service"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/testsupport"
)

func TestSeedAdmin(t *testing.T) {
	db := testsupport.NewDB(t)
	ctx := context.Background()

	u, err := seedAdmin(ctx, db, testsupport.Logger(), userDTO.CreateUserRequest{
		Email: " Boss@Acme.test ", Password: "long-enough-pw", FirstName: "Bo", LastName: "Ss",
	})
	require.NoError(t, err)
	assert.Equal(t, "boss@acme.test", u.Email)
	assert.Equal(t, userModel.RoleAdmin, u.Role)
	assert.True(t, userService.CheckPassword(u.PasswordHash, "long-enough-pw"))

	_, err = seedAdmin(ctx, db, testsupport.Logger(), userDTO.CreateUserRequest{
		Email: "boss@acme.test", Password: "long-enough-pw", FirstName: "Bo", LastName: "Ss",
	})
	assert.Equal(t, 409, helper.StatusOf(err))

	_, err = seedAdmin(ctx, db, testsupport.Logger(), userDTO.CreateUserRequest{
		Email: "short@acme.test", Password: "short", FirstName: "Bo", LastName: "Ss",
	})
	assert.Equal(t, 400, helper.StatusOf(err))
}

func TestCheckDBReportsUnreachableServer(t *testing.T) {
	err := checkDB(context.Background(), "postgres", "postgres://nobody:x@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}
