package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanops_backend/internals/helpers/dbtime"
)

type ZoneModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:50;not null" json:"name"`
	Code        string         `gorm:"size:10;not null;uniqueIndex" json:"code"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	ChiefID     *uuid.UUID     `gorm:"type:uuid;index" json:"chiefId,omitempty"`
	IsActive    bool           `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (ZoneModel) TableName() string { return "zones" }

func (m *ZoneModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ZoneAgentModel assigns an agent to a zone for a validity window.
type ZoneAgentModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ZoneID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"zoneId"`
	AgentID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"agentId"`
	StartDate dbtime.Date    `gorm:"not null" json:"startDate"`
	EndDate   *dbtime.Date   `json:"endDate"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (ZoneAgentModel) TableName() string { return "zone_agents" }

func (m *ZoneAgentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ZoneSiteModel attaches a site to a zone for a validity window.
type ZoneSiteModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ZoneID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"zoneId"`
	SiteID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"siteId"`
	StartDate dbtime.Date    `gorm:"not null" json:"startDate"`
	EndDate   *dbtime.Date   `json:"endDate"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (ZoneSiteModel) TableName() string { return "zone_sites" }

func (m *ZoneSiteModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
