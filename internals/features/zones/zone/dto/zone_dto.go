package dto

import (
	"strings"

	"github.com/google/uuid"

	"cleanops_backend/internals/features/zones/zone/model"
	helper "cleanops_backend/internals/helpers"
)

type CreateZoneRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=50"`
	Code        string  `json:"code" validate:"required,max=10,uppercode"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ChiefID     *string `json:"chiefId" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"isActive"`
}

func (r *CreateZoneRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}

func (r *CreateZoneRequest) ToModel() model.ZoneModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.ZoneModel{
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		ChiefID:     helper.ParseOptionalUUID(r.ChiefID),
		IsActive:    active,
	}
}

type UpdateZoneRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=50"`
	Code        *string `json:"code" validate:"omitempty,max=10,uppercode"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ChiefID     *string `json:"chiefId" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"isActive"`
}

func (r *UpdateZoneRequest) Normalize() {
	if r.Code != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Code))
		r.Code = &v
	}
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
}

func (r *UpdateZoneRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Code != nil {
		up["code"] = *r.Code
	}
	if r.Description != nil {
		up["description"] = *r.Description
	}
	if id := helper.ParseOptionalUUID(r.ChiefID); id != nil {
		up["chief_id"] = *id
	}
	if r.IsActive != nil {
		up["is_active"] = *r.IsActive
	}
	return up
}

type ListZonesQuery struct {
	IsActive string `query:"isActive" validate:"omitempty,oneof=true false"`
}

/* ===== Assignments ===== */

type AssignAgentRequest struct {
	AgentID   string  `json:"agentId" validate:"required,uuid"`
	StartDate string  `json:"startDate" validate:"required,isodate"`
	EndDate   *string `json:"endDate" validate:"omitempty,isodate,gtedate=StartDate"`
}

func (r *AssignAgentRequest) ToModel(zoneID uuid.UUID) model.ZoneAgentModel {
	return model.ZoneAgentModel{
		ZoneID:    zoneID,
		AgentID:   helper.MustUUID(r.AgentID),
		StartDate: helper.MustDate(r.StartDate),
		EndDate:   helper.OptionalDate(r.EndDate),
	}
}

type AssignSiteRequest struct {
	SiteID    string  `json:"siteId" validate:"required,uuid"`
	StartDate string  `json:"startDate" validate:"required,isodate"`
	EndDate   *string `json:"endDate" validate:"omitempty,isodate,gtedate=StartDate"`
}

func (r *AssignSiteRequest) ToModel(zoneID uuid.UUID) model.ZoneSiteModel {
	return model.ZoneSiteModel{
		ZoneID:    zoneID,
		SiteID:    helper.MustUUID(r.SiteID),
		StartDate: helper.MustDate(r.StartDate),
		EndDate:   helper.OptionalDate(r.EndDate),
	}
}
