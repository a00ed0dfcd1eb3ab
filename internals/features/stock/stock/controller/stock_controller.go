package controller

import (
	"github.com/gofiber/fiber/v2"

	"cleanops_backend/internals/features/stock/stock/dto"
	"cleanops_backend/internals/features/stock/stock/service"
	helper "cleanops_backend/internals/helpers"
	helperAuth "cleanops_backend/internals/helpers/auth"
)

type StockController struct {
	Svc      *service.StockService
	Validate *helper.Validator
}

func NewStockController(svc *service.StockService, v *helper.Validator) *StockController {
	return &StockController{Svc: svc, Validate: v}
}

// GET /stock/items
func (ctl *StockController) ListItems(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListItemsQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.ListItems(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "stock items", rows, p)
}

// GET /stock/items/:id
func (ctl *StockController) GetItem(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.GetItem(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "stock item", m)
}

// POST /stock/items
func (ctl *StockController) CreateItem(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateItemRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.CreateItem(c.UserContext(), req, userID)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "stock item created", m)
}

// PATCH /stock/items/:id
func (ctl *StockController) UpdateItem(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateItemRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.UpdateItem(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "stock item updated", m)
}

// DELETE /stock/items/:id
func (ctl *StockController) DeleteItem(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.DeleteItem(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "stock item deleted", fiber.Map{"id": id})
}

// GET /stock/movements
func (ctl *StockController) ListMovements(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListMovementsQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.ListMovements(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "stock movements", rows, p)
}

// POST /stock/movements
func (ctl *StockController) CreateMovement(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateMovementRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.CreateMovement(c.UserContext(), req, userID)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "stock movement recorded", m)
}
