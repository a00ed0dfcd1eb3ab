package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"cleanops_backend/internals/features/interventions/intervention/dto"
	"cleanops_backend/internals/features/interventions/intervention/service"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/media"
)

type InterventionController struct {
	Svc      *service.InterventionService
	Validate *helper.Validator
}

func NewInterventionController(svc *service.InterventionService, v *helper.Validator) *InterventionController {
	return &InterventionController{Svc: svc, Validate: v}
}

// GET /interventions
func (ctl *InterventionController) List(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListInterventionsQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.List(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "interventions", rows, p)
}

// GET /interventions/export (same filters as the list, xlsx)
func (ctl *InterventionController) Export(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListInterventionsQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	data, n, err := ctl.Svc.Export(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("interventions_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set("X-Total-Rows", fmt.Sprint(n))
	return c.Status(fiber.StatusOK).Send(data)
}

// GET /interventions/:id
func (ctl *InterventionController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "intervention", m)
}

// POST /interventions
func (ctl *InterventionController) Create(c *fiber.Ctx) error {
	var req dto.CreateInterventionRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "intervention created", m)
}

// PATCH /interventions/:id
func (ctl *InterventionController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateInterventionRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "intervention updated", m)
}

// DELETE /interventions/:id
func (ctl *InterventionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "intervention deleted", fiber.Map{"id": id})
}

// PUT /interventions/:id/agents
func (ctl *InterventionController) SetAgents(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SetAgentsRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.SetAgents(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "agents assigned", m)
}

/* ===== Field operations ===== */

// POST /interventions/:id/checkin
func (ctl *InterventionController) CheckIn(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.GPSRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.CheckIn(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "checked in", m)
}

// POST /interventions/:id/checkout
func (ctl *InterventionController) CheckOut(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.GPSRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.CheckOut(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "checked out", m)
}

// POST /interventions/:id/reschedule
func (ctl *InterventionController) Reschedule(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RescheduleRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Reschedule(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "intervention rescheduled", m)
}

// POST /interventions/:id/cancel (body optional)
func (ctl *InterventionController) Cancel(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
			return err
		}
	}
	m, err := ctl.Svc.Cancel(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "intervention cancelled", m)
}

// POST /interventions/:id/photos (multipart field "photo")
func (ctl *InterventionController) AddPhoto(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("photo")
	if err != nil || fh == nil {
		return helper.NewFieldError("photo", "photo is required")
	}
	if fh.Size > media.MaxUploadBytes {
		return helper.NewFieldError("photo", fmt.Sprintf("photo must be at most %d MB", media.MaxUploadBytes>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return helper.NewFieldError("photo", "photo could not be read")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, media.MaxUploadBytes+1))
	if err != nil {
		return helper.NewFieldError("photo", "photo could not be read")
	}
	if len(data) > media.MaxUploadBytes {
		return helper.NewFieldError("photo", fmt.Sprintf("photo must be at most %d MB", media.MaxUploadBytes>>20))
	}

	m, err := ctl.Svc.AddPhoto(c.UserContext(), id, data, fh.Filename)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "photo uploaded", m)
}
