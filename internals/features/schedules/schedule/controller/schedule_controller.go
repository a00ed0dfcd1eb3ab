package controller

import (
	"github.com/gofiber/fiber/v2"

	"cleanops_backend/internals/features/schedules/schedule/dto"
	"cleanops_backend/internals/features/schedules/schedule/service"
	helper "cleanops_backend/internals/helpers"
)

type ScheduleController struct {
	Svc      *service.ScheduleService
	Validate *helper.Validator
}

func NewScheduleController(svc *service.ScheduleService, v *helper.Validator) *ScheduleController {
	return &ScheduleController{Svc: svc, Validate: v}
}

// GET /schedules
func (ctl *ScheduleController) List(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListSchedulesQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.List(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "schedules", rows, p)
}

// GET /schedules/:id
func (ctl *ScheduleController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "schedule", m)
}

// POST /schedules
func (ctl *ScheduleController) Create(c *fiber.Ctx) error {
	var req dto.CreateScheduleRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "schedule created", m)
}

// PATCH /schedules/:id
func (ctl *ScheduleController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateScheduleRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "schedule updated", m)
}

// DELETE /schedules/:id
func (ctl *ScheduleController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "schedule deleted", fiber.Map{"id": id})
}

// POST /schedules/:id/generate (body optional)
func (ctl *ScheduleController) Generate(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.GenerateRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
			return err
		}
	}
	res, err := ctl.Svc.Generate(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "interventions generated", res)
}
