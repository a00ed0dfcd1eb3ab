package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/interventions/intervention/controller"
	"cleanops_backend/internals/features/interventions/intervention/service"
	userModel "cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	authMiddleware "cleanops_backend/internals/middlewares/auth"
)

// InterventionRoutes: planning writes need a planner role; field operations are open to any signed-in user.
func InterventionRoutes(r fiber.Router, db *gorm.DB, v *helper.Validator, log *zap.Logger, photos service.PhotoStore) {
	ctl := controller.NewInterventionController(service.NewInterventionService(db, log, photos), v)
	planners := authMiddleware.OnlyRoles(userModel.RoleAdmin, userModel.RoleManager, userModel.RoleSupervisor)

	g := r.Group("/interventions")
	g.Get("/", ctl.List)
	g.Get("/export", ctl.Export)
	g.Post("/", planners, ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", planners, ctl.Delete)
	g.Put("/:id/agents", planners, ctl.SetAgents)

	g.Post("/:id/checkin", ctl.CheckIn)
	g.Post("/:id/checkout", ctl.CheckOut)
	g.Post("/:id/reschedule", planners, ctl.Reschedule)
	g.Post("/:id/cancel", planners, ctl.Cancel)
	g.Post("/:id/photos", ctl.AddPhoto)
}
