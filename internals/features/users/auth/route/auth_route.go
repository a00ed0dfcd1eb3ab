package route

import (
	"github.com/gofiber/fiber/v2"

	"cleanops_backend/internals/features/users/auth/controller"
	"cleanops_backend/internals/features/users/auth/service"
	helper "cleanops_backend/internals/helpers"
	rateLimiter "cleanops_backend/internals/middlewares"
)

// AuthRoutes mounts /auth. Login and refresh are public; the rest go through requireAuth.
func AuthRoutes(api fiber.Router, requireAuth fiber.Handler, svc *service.AuthService, v *helper.Validator) {
	ctl := controller.NewAuthController(svc, v)

	g := api.Group("/auth")
	g.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	g.Post("/refresh", rateLimiter.LoginRateLimiter(), ctl.Refresh)

	g.Post("/logout", requireAuth, ctl.Logout)
	g.Get("/me", requireAuth, ctl.Me)
	g.Patch("/password", requireAuth, ctl.ChangePassword)
}
