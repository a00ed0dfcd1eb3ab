package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cleanops_backend/internals/helpers/dbtime"
)

const (
	TypeVacation     = "VACATION"
	TypeSickLeave    = "SICK_LEAVE"
	TypeUnpaid       = "UNPAID"
	TypeAuthorized   = "AUTHORIZED"
	TypeUnauthorized = "UNAUTHORIZED"
)

type AbsenceModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AgentID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"agentId"`
	AbsenceType string         `gorm:"size:20;not null" json:"absenceType"`
	StartDate   dbtime.Date    `gorm:"not null;index" json:"startDate"`
	EndDate     dbtime.Date    `gorm:"not null" json:"endDate"`
	Reason      *string        `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (AbsenceModel) TableName() string { return "absences" }

func (m *AbsenceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
