package route

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/stock/stock/controller"
	"cleanops_backend/internals/features/stock/stock/service"
	userModel "cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	authMiddleware "cleanops_backend/internals/middlewares/auth"
)

// StockRoutes: any signed-in user may book a movement; the catalogue is managed by managers.
func StockRoutes(r fiber.Router, db *gorm.DB, v *helper.Validator, log *zap.Logger) {
	ctl := controller.NewStockController(service.NewStockService(db, log), v)
	managers := authMiddleware.OnlyRoles(userModel.RoleAdmin, userModel.RoleManager)

	g := r.Group("/stock")
	g.Get("/items", ctl.ListItems)
	g.Post("/items", managers, ctl.CreateItem)
	g.Get("/items/:id", ctl.GetItem)
	g.Patch("/items/:id", managers, ctl.UpdateItem)
	g.Delete("/items/:id", managers, ctl.DeleteItem)

	g.Get("/movements", ctl.ListMovements)
	g.Post("/movements", ctl.CreateMovement)
}
