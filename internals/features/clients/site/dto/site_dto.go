package dto

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"cleanops_backend/internals/features/clients/site/model"
)

type CreateSiteRequest struct {
	ClientID           string           `json:"clientId" validate:"required,uuid"`
	Name               string           `json:"name" validate:"required,min=1,max=200"`
	Address            string           `json:"address" validate:"required,min=1,max=255"`
	City               *string          `json:"city" validate:"omitempty,max=100"`
	PostalCode         *string          `json:"postalCode" validate:"omitempty,max=20"`
	Country            *string          `json:"country" validate:"omitempty,len=2"`
	Latitude           *float64         `json:"latitude" validate:"required_with=Longitude,omitempty,gte=-90,lte=90"`
	Longitude          *float64         `json:"longitude" validate:"required_with=Latitude,omitempty,gte=-180,lte=180"`
	Geofence           []model.GeoPoint `json:"geofence" validate:"omitempty,min=3,dive"`
	AccessInstructions *string          `json:"accessInstructions" validate:"omitempty,max=2000"`
	SurfaceArea        *float64         `json:"surfaceArea" validate:"omitempty,gt=0"`
	IsActive           *bool            `json:"isActive"`
}

func (r *CreateSiteRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	if r.Country != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Country))
		r.Country = &v
	}
}

func (r *CreateSiteRequest) ToModel() model.SiteModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.SiteModel{
		ClientID:           uuid.MustParse(r.ClientID),
		Name:               r.Name,
		Address:            r.Address,
		City:               r.City,
		PostalCode:         r.PostalCode,
		Country:            r.Country,
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		Geofence:           r.Geofence,
		AccessInstructions: r.AccessInstructions,
		SurfaceArea:        r.SurfaceArea,
		IsActive:           active,
	}
}

type UpdateSiteRequest struct {
	Name               *string           `json:"name" validate:"omitempty,min=1,max=200"`
	Address            *string           `json:"address" validate:"omitempty,min=1,max=255"`
	City               *string           `json:"city" validate:"omitempty,max=100"`
	PostalCode         *string           `json:"postalCode" validate:"omitempty,max=20"`
	Country            *string           `json:"country" validate:"omitempty,len=2"`
	Latitude           *float64          `json:"latitude" validate:"required_with=Longitude,omitempty,gte=-90,lte=90"`
	Longitude          *float64          `json:"longitude" validate:"required_with=Latitude,omitempty,gte=-180,lte=180"`
	Geofence           *[]model.GeoPoint `json:"geofence" validate:"omitempty,min=3,dive"`
	AccessInstructions *string           `json:"accessInstructions" validate:"omitempty,max=2000"`
	SurfaceArea        *float64          `json:"surfaceArea" validate:"omitempty,gt=0"`
	IsActive           *bool             `json:"isActive"`
}

func (r *UpdateSiteRequest) Normalize() {
	if r.Country != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Country))
		r.Country = &v
	}
}

func (r *UpdateSiteRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if r.Name != nil {
		up["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Address != nil {
		up["address"] = strings.TrimSpace(*r.Address)
	}
	if r.City != nil {
		up["city"] = *r.City
	}
	if r.PostalCode != nil {
		up["postal_code"] = *r.PostalCode
	}
	if r.Country != nil {
		up["country"] = *r.Country
	}
	if r.Latitude != nil && r.Longitude != nil {
		up["latitude"] = *r.Latitude
		up["longitude"] = *r.Longitude
	}
	if r.Geofence != nil {
		up["geofence"] = datatypes.JSONSlice[model.GeoPoint](*r.Geofence)
	}
	if r.AccessInstructions != nil {
		up["access_instructions"] = *r.AccessInstructions
	}
	if r.SurfaceArea != nil {
		up["surface_area"] = *r.SurfaceArea
	}
	if r.IsActive != nil {
		up["is_active"] = *r.IsActive
	}
	return up
}

type ListSitesQuery struct {
	ClientID string `query:"clientId" validate:"omitempty,uuid"`
	IsActive string `query:"isActive" validate:"omitempty,oneof=true false"`
}
