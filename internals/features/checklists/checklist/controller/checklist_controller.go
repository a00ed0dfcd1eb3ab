package controller

import (
	"github.com/gofiber/fiber/v2"

	"cleanops_backend/internals/features/checklists/checklist/dto"
	"cleanops_backend/internals/features/checklists/checklist/service"
	helper "cleanops_backend/internals/helpers"
	helperAuth "cleanops_backend/internals/helpers/auth"
)

type ChecklistController struct {
	Svc      *service.ChecklistService
	Validate *helper.Validator
}

func NewChecklistController(svc *service.ChecklistService, v *helper.Validator) *ChecklistController {
	return &ChecklistController{Svc: svc, Validate: v}
}

/* ===== Templates ===== */

// GET /checklists/templates
func (ctl *ChecklistController) ListTemplates(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListTemplatesQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.ListTemplates(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "checklist templates", rows, p)
}

// GET /checklists/templates/:id
func (ctl *ChecklistController) GetTemplate(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.GetTemplate(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "checklist template", m)
}

// POST /checklists/templates
func (ctl *ChecklistController) CreateTemplate(c *fiber.Ctx) error {
	var req dto.CreateTemplateRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.CreateTemplate(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "checklist template created", m)
}

// PATCH /checklists/templates/:id
func (ctl *ChecklistController) UpdateTemplate(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTemplateRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.UpdateTemplate(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "checklist template updated", m)
}

// DELETE /checklists/templates/:id
func (ctl *ChecklistController) DeleteTemplate(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.DeleteTemplate(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "checklist template deleted", fiber.Map{"id": id})
}

/* ===== Instances ===== */

// GET /checklists/instances
func (ctl *ChecklistController) ListInstances(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListInstancesQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.ListInstances(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "checklists", rows, p)
}

// GET /checklists/instances/:id
func (ctl *ChecklistController) GetInstance(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.GetInstance(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "checklist", m)
}

// POST /checklists/instances
func (ctl *ChecklistController) CreateInstance(c *fiber.Ctx) error {
	var req dto.CreateInstanceRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.CreateInstance(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "checklist created", m)
}

// POST /checklists/instances/:id/items/:itemId/complete (body optional)
func (ctl *ChecklistController) CompleteItem(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := helper.ParamUUID(c, "itemId")
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.CompleteItemRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
			return err
		}
	}
	m, err := ctl.Svc.CompleteItem(c.UserContext(), id, itemID, userID, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "checklist item completed", m)
}

// POST /checklists/instances/:id/review
func (ctl *ChecklistController) Review(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Review(c.UserContext(), id, userID, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "checklist reviewed", m)
}
