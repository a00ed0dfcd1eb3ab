package controller

import (
	"github.com/gofiber/fiber/v2"

	"cleanops_backend/internals/features/clients/site/dto"
	"cleanops_backend/internals/features/clients/site/service"
	helper "cleanops_backend/internals/helpers"
)

type SiteController struct {
	Svc      *service.SiteService
	Validate *helper.Validator
}

func NewSiteController(svc *service.SiteService, v *helper.Validator) *SiteController {
	return &SiteController{Svc: svc, Validate: v}
}

// GET /sites
func (ctl *SiteController) List(c *fiber.Ctx) error {
	lq := helper.ParseListQuery(c)
	var f dto.ListSitesQuery
	if err := helper.BindQuery(c, ctl.Validate, &f); err != nil {
		return err
	}
	rows, p, err := ctl.Svc.List(c.UserContext(), lq, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "sites", rows, p)
}

// GET /sites/:id
func (ctl *SiteController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "site", m)
}

// POST /sites
func (ctl *SiteController) Create(c *fiber.Ctx) error {
	var req dto.CreateSiteRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "site created", m)
}

// PATCH /sites/:id
func (ctl *SiteController) Update(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSiteRequest
	if err := helper.BindAndValidate(c, ctl.Validate, &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "site updated", m)
}

// DELETE /sites/:id
func (ctl *SiteController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "site deleted", fiber.Map{"id": id})
}

// POST /sites/:id/geocode
func (ctl *SiteController) Geocode(c *fiber.Ctx) error {
	id, err := helper.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Geocode(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "site geocoded", m)
}
