package controller

import (
	"github.com/gofiber/fiber/v2"

	"cleanops_backend/internals/features/users/auth/dto"
	"cleanops_backend/internals/features/users/auth/service"
	helper "cleanops_backend/internals/helpers"
	helperAuth "cleanops_backend/internals/helpers/auth"
)

type AuthController struct {
	Svc      *service.AuthService
	Validate *helper.Validator
}

func NewAuthController(svc *service.AuthService, v *helper.Validator) *AuthController {
	return &AuthController{Svc: svc, Validate: v}
}

// POST /auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.BindAndValidate(c, ac.Validate, &req); err != nil {
		return err
	}
	out, err := ac.Svc.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// POST /auth/refresh
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := helper.BindAndValidate(c, ac.Validate, &req); err != nil {
		return err
	}
	out, err := ac.Svc.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	out.User = nil
	return c.Status(fiber.StatusOK).JSON(out)
}

// POST /auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Svc.Revoke(c.UserContext(), helperAuth.RawToken(c)); err != nil {
		return err
	}
	return helper.JsonOK(c, "logged out", nil)
}

// GET /auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	id, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	u, err := ac.Svc.Me(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "me", u)
}

// PATCH /auth/password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	id, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := helper.BindAndValidate(c, ac.Validate, &req); err != nil {
		return err
	}
	if err := ac.Svc.ChangePassword(c.UserContext(), id, req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "password changed", nil)
}
