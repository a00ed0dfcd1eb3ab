package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/checklists/checklist/controller"
	"cleanops_backend/internals/features/checklists/checklist/service"
	userModel "cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	authMiddleware "cleanops_backend/internals/middlewares/auth"
)

func ChecklistRoutes(r fiber.Router, db *gorm.DB, v *helper.Validator, log *zap.Logger) {
	ctl := controller.NewChecklistController(service.NewChecklistService(db, log), v)
	managers := authMiddleware.OnlyRoles(userModel.RoleAdmin, userModel.RoleManager)
	reviewers := authMiddleware.OnlyRoles(userModel.RoleAdmin, userModel.RoleManager, userModel.RoleSupervisor)

	g := r.Group("/checklists")

	tpl := g.Group("/templates")
	tpl.Get("/", ctl.ListTemplates)
	tpl.Post("/", managers, ctl.CreateTemplate)
	tpl.Get("/:id", ctl.GetTemplate)
	tpl.Patch("/:id", managers, ctl.UpdateTemplate)
	tpl.Delete("/:id", managers, ctl.DeleteTemplate)

	inst := g.Group("/instances")
	inst.Get("/", ctl.ListInstances)
	inst.Post("/", reviewers, ctl.CreateInstance)
	inst.Get("/:id", ctl.GetInstance)
	inst.Post("/:id/items/:itemId/complete", ctl.CompleteItem)
	inst.Post("/:id/review", reviewers, ctl.Review)
}
