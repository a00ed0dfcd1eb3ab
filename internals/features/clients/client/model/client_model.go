package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeIndividual = "INDIVIDUAL"
	TypeCompany    = "COMPANY"
	TypeMultisite  = "MULTISITE"

	StatusProspect  = "PROSPECT"
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusArchived  = "ARCHIVED"
)

type ClientModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ClientCode  string         `gorm:"column:client_code;size:20;not null;uniqueIndex" json:"clientCode"`
	Name        string         `gorm:"size:200;not null;index" json:"name"`
	Type        string         `gorm:"size:20;not null" json:"type"`
	Email       *string        `gorm:"size:255" json:"email,omitempty"`
	Phone       *string        `gorm:"size:30" json:"phone,omitempty"`
	ContactName *string        `gorm:"size:150" json:"contactName,omitempty"`
	Address     *string        `gorm:"size:255" json:"address,omitempty"`
	City        *string        `gorm:"size:100" json:"city,omitempty"`
	PostalCode  *string        `gorm:"size:20" json:"postalCode,omitempty"`
	Country     *string        `gorm:"size:2" json:"country,omitempty"`
	VatNumber   *string        `gorm:"size:30" json:"vatNumber,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	Status      string         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (ClientModel) TableName() string { return "clients" }

func (m *ClientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
