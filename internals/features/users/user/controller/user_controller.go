package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/users/user/dto"
	"cleanops_backend/internals/features/users/user/service"
	helper "cleanops_backend/internals/helpers"
	helperAuth "cleanops_backend/internals/helpers/auth"
)

type UserController struct {
	Svc      *service.UserService
	Validate *helper.Validator
}

func NewUserController(db *gorm.DB, v *helper.Validator, log *zap.Logger) *UserController {
	return &UserController{Svc: service.NewUserService(db, log), Validate: v}
}

// GET /users
func (ctl *UserController) List(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListUsersQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.List(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "users", rows, p)
}

// GET /users/:id
func (ctl *UserController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "user", m)
}

// POST /users
func (ctl *UserController) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "user created", m)
}

// PATCH /users/:id
func (ctl *UserController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "user updated", m)
}

// DELETE /users/:id
func (ctl *UserController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	actor, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id, actor); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "user deleted", fiber.Map{"id": id})
}
