package controller

import (
	"github.com/gofiber/fiber/v2"

	"cleanops_backend/internals/features/absences/absence/dto"
	"cleanops_backend/internals/features/absences/absence/service"
	helper "cleanops_backend/internals/helpers"
)

type AbsenceController struct {
	Svc      *service.AbsenceService
	Validate *helper.Validator
}

func NewAbsenceController(svc *service.AbsenceService, v *helper.Validator) *AbsenceController {
	return &AbsenceController{Svc: svc, Validate: v}
}

// GET /absences
func (ctl *AbsenceController) List(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListAbsencesQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.List(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "absences", rows, p)
}

// GET /absences/:id
func (ctl *AbsenceController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "absence", m)
}

// POST /absences
func (ctl *AbsenceController) Create(c *fiber.Ctx) error {
	var req dto.CreateAbsenceRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "absence created", m)
}

// PATCH /absences/:id
func (ctl *AbsenceController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAbsenceRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "absence updated", m)
}

// DELETE /absences/:id
func (ctl *AbsenceController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "absence deleted", fiber.Map{"id": id})
}
