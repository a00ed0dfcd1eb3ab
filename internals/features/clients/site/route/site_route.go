package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/clients/site/controller"
	"cleanops_backend/internals/features/clients/site/service"
	userModel "cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	authMiddleware "cleanops_backend/internals/middlewares/auth"
)

func SiteRoutes(r fiber.Router, db *gorm.DB, v *helper.Validator, log *zap.Logger, geocoder service.Geocoder) {
	ctl := controller.NewSiteController(service.NewSiteService(db, log, geocoder), v)
	managers := authMiddleware.OnlyRoles(userModel.RoleAdmin, userModel.RoleManager)

	g := r.Group("/sites")
	g.Get("/", ctl.List)
	g.Post("/", managers, ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", managers, ctl.Update)
	g.Delete("/:id", managers, ctl.Delete)
	g.Post("/:id/geocode", managers, ctl.Geocode)
}
