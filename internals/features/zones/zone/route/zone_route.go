package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	userModel "cleanops_backend/internals/features/users/user/model"
	"cleanops_backend/internals/features/zones/zone/controller"
	helper "cleanops_backend/internals/helpers"
	authMiddleware "cleanops_backend/internals/middlewares/auth"
)

func ZoneRoutes(r fiber.Router, db *gorm.DB, v *helper.Validator, log *zap.Logger) {
	ctl := controller.NewZoneController(db, v, log)
	managers := authMiddleware.OnlyRoles(userModel.RoleAdmin, userModel.RoleManager)

	g := r.Group("/zones")
	g.Get("/", ctl.List)
	g.Post("/", managers, ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", managers, ctl.Update)
	g.Delete("/:id", managers, ctl.Delete)

	g.Get("/:id/agents", ctl.ListAgents)
	g.Post("/:id/agents", managers, ctl.AssignAgent)
	g.Delete("/:id/agents/:assignmentId", managers, ctl.RemoveAgent)

	g.Get("/:id/sites", ctl.ListSites)
	g.Post("/:id/sites", managers, ctl.AssignSite)
	g.Delete("/:id/sites/:assignmentId", managers, ctl.RemoveSite)
}
