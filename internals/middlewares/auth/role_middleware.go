package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "cleanops_backend/internals/helpers"
	helperAuth "cleanops_backend/internals/helpers/auth"
)

// OnlyRoles lets the request through when the token role is one of roles.
func OnlyRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.GetRole(c) == "" {
			return helper.NewUnauthorized("missing role information")
		}
		if !helperAuth.HasRole(c, roles...) {
			return helper.NewForbidden("you are not allowed to perform this action")
		}
		return c.Next()
	}
}
