package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/schedules/schedule/controller"
	"cleanops_backend/internals/features/schedules/schedule/service"
	userModel "cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	authMiddleware "cleanops_backend/internals/middlewares/auth"
)

func ScheduleRoutes(r fiber.Router, db *gorm.DB, v *helper.Validator, log *zap.Logger, opts service.Options) {
	ctl := controller.NewScheduleController(service.NewScheduleService(db, log, opts), v)
	planners := authMiddleware.OnlyRoles(userModel.RoleAdmin, userModel.RoleManager, userModel.RoleSupervisor)

	g := r.Group("/schedules")
	g.Get("/", ctl.List)
	g.Post("/", planners, ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", planners, ctl.Update)
	g.Delete("/:id", planners, ctl.Delete)
	g.Post("/:id/generate", planners, ctl.Generate)
}
