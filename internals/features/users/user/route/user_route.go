package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/users/user/controller"
	"cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	authMiddleware "cleanops_backend/internals/middlewares/auth"
)

// UserRoutes mounts /users on an authenticated router.
func UserRoutes(r fiber.Router, db *gorm.DB, v *helper.Validator, log *zap.Logger) {
	ctl := controller.NewUserController(db, v, log)
	managers := authMiddleware.OnlyRoles(model.RoleAdmin, model.RoleManager)

	g := r.Group("/users")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/", managers, ctl.Create)
	g.Patch("/:id", managers, ctl.Update)
	g.Delete("/:id", managers, ctl.Delete)
}
