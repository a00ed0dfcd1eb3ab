package controller

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/zones/zone/dto"
	"cleanops_backend/internals/features/zones/zone/service"
	helper "cleanops_backend/internals/helpers"
)

type ZoneController struct {
	Svc      *service.ZoneService
	Validate *helper.Validator
}

func NewZoneController(db *gorm.DB, v *helper.Validator, log *zap.Logger) *ZoneController {
	return &ZoneController{Svc: service.NewZoneService(db, log), Validate: v}
}

// GET /zones
func (ctl *ZoneController) List(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListZonesQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.List(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "zones", rows, p)
}

// GET /zones/:id
func (ctl *ZoneController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "zone", m)
}

// POST /zones
func (ctl *ZoneController) Create(c *fiber.Ctx) error {
	var req dto.CreateZoneRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "zone created", m)
}

// PATCH /zones/:id
func (ctl *ZoneController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateZoneRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "zone updated", m)
}

// DELETE /zones/:id
func (ctl *ZoneController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "zone deleted", fiber.Map{"id": id})
}

// GET /zones/:id/agents
func (ctl *ZoneController) ListAgents(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	rows, p, err := ctl.Svc.ListAgents(c.UserContext(), id, helper.ParseListQuery(c))
	if err != nil {
		return err
	}
	return helper.JsonList(c, "zone agents", rows, p)
}

// POST /zones/:id/agents
func (ctl *ZoneController) AssignAgent(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignAgentRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.AssignAgent(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "agent assigned", m)
}

// DELETE /zones/:id/agents/:assignmentId
func (ctl *ZoneController) RemoveAgent(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	aid, err := helper.ParamUUID(c, "assignmentId")
	if err != nil {
		return err
	}
	if err := ctl.Svc.RemoveAgent(c.UserContext(), id, aid); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "agent unassigned", fiber.Map{"id": aid})
}

// GET /zones/:id/sites
func (ctl *ZoneController) ListSites(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	rows, p, err := ctl.Svc.ListSites(c.UserContext(), id, helper.ParseListQuery(c))
	if err != nil {
		return err
	}
	return helper.JsonList(c, "zone sites", rows, p)
}

// POST /zones/:id/sites
func (ctl *ZoneController) AssignSite(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignSiteRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.AssignSite(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "site assigned", m)
}

// DELETE /zones/:id/sites/:assignmentId
func (ctl *ZoneController) RemoveSite(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	aid, err := helper.ParamUUID(c, "assignmentId")
	if err != nil {
		return err
	}
	if err := ctl.Svc.RemoveSite(c.UserContext(), id, aid); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "site unassigned", fiber.Map{"id": aid})
}
