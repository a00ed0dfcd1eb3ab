package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/clients/client/dto"
	"cleanops_backend/internals/features/clients/client/service"
	helper "cleanops_backend/internals/helpers"
)

type ClientController struct {
	Svc      *service.ClientService
	Validate *helper.Validator
}

func NewClientController(db *gorm.DB, v *helper.Validator, log *zap.Logger) *ClientController {
	return &ClientController{Svc: service.NewClientService(db, log), Validate: v}
}

// GET /clients
func (ctl *ClientController) List(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListClientsQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.List(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "clients", rows, p)
}

// GET /clients/:id
func (ctl *ClientController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "client", m)
}

// POST /clients
func (ctl *ClientController) Create(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "client created", m)
}

// PATCH /clients/:id
func (ctl *ClientController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateClientRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "client updated", m)
}

// DELETE /clients/:id
func (ctl *ClientController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "client deleted", fiber.Map{"id": id})
}

// GET /clients/:id/sites
func (ctl *ClientController) Sites(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	rows, p, err := ctl.Svc.Sites(c.UserContext(), id, helper.ParseListQuery(c))
	if err != nil {
		return err
	}
	return helper.JsonList(c, "client sites", rows, p)
}

// GET /clients/:id/contracts
func (ctl *ClientController) Contracts(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	rows, p, err := ctl.Svc.Contracts(c.UserContext(), id, helper.ParseListQuery(c))
	if err != nil {
		return err
	}
	return helper.JsonList(c, "client contracts", rows, p)
}
