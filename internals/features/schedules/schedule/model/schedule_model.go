package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanops_backend/internals/helpers/dbtime"
)

const (
	PatternDaily     = "DAILY"
	PatternWeekly    = "WEEKLY"
	PatternBiweekly  = "BIWEEKLY"
	PatternMonthly   = "MONTHLY"
	PatternQuarterly = "QUARTERLY"

	StatusActive    = "ACTIVE"
	StatusPaused    = "PAUSED"
	StatusCompleted = "COMPLETED"
)

type ScheduleModel struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"contractId"`
	SiteID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"siteId"`
	ZoneID             *uuid.UUID     `gorm:"type:uuid;index" json:"zoneId,omitempty"`
	RecurrencePattern  string         `gorm:"size:20;not null" json:"recurrencePattern"`
	StartTime          string         `gorm:"size:5;not null" json:"startTime"`
	EndTime            string         `gorm:"size:5;not null" json:"endTime"`
	ValidFrom          dbtime.Date    `gorm:"not null" json:"validFrom"`
	ValidUntil         *dbtime.Date   `json:"validUntil"`
	Status             string         `gorm:"size:20;not null;index" json:"status"`
	TeamChiefID        *uuid.UUID     `gorm:"type:uuid" json:"teamChiefId,omitempty"`
	Notes              *string        `gorm:"type:text" json:"notes,omitempty"`
	LastGeneratedUntil *dbtime.Date   `json:"lastGeneratedUntil"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (ScheduleModel) TableName() string { return "schedules" }

func (m *ScheduleModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

var transitions = map[string][]string{
	StatusActive: {StatusPaused, StatusCompleted},
	StatusPaused: {StatusActive, StatusCompleted},
}

func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
