package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cleanops_backend/internals/helpers/geo"
)

type GeoPoint = geo.Point

type SiteModel struct {
	ID                 uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID           uuid.UUID                    `gorm:"type:uuid;not null;index" json:"clientId"`
	Name               string                       `gorm:"size:200;not null" json:"name"`
	Address            string                       `gorm:"size:255;not null" json:"address"`
	City               *string                      `gorm:"size:100" json:"city,omitempty"`
	PostalCode         *string                      `gorm:"size:20" json:"postalCode,omitempty"`
	Country            *string                      `gorm:"size:2" json:"country,omitempty"`
	Latitude           *float64                     `json:"latitude,omitempty"`
	Longitude          *float64                     `json:"longitude,omitempty"`
	Geofence           datatypes.JSONSlice[GeoPoint] `json:"geofence,omitempty"`
	AccessInstructions *string                      `gorm:"type:text" json:"accessInstructions,omitempty"`
	SurfaceArea        *float64                     `json:"surfaceArea,omitempty"`
	IsActive           bool                         `gorm:"not null" json:"isActive"`
	CreatedAt          time.Time                    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time                    `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt          gorm.DeletedAt               `gorm:"index" json:"deletedAt"`
}

func (SiteModel) TableName() string { return "sites" }

func (m *SiteModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// HasCoordinates reports whether the site has a geocoded position.
func (m *SiteModel) HasCoordinates() bool {
	return m.Latitude != nil && m.Longitude != nil
}

func (m *SiteModel) Position() (geo.Point, bool) {
	if !m.HasCoordinates() {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *m.Latitude, Lng: *m.Longitude}, true
}
