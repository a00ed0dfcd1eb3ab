package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	InstancePending    = "PENDING"
	InstanceInProgress = "IN_PROGRESS"
	InstanceCompleted  = "COMPLETED"
	InstanceReviewed   = "REVIEWED"
)

/* ===== Templates ===== */

type ChecklistTemplateModel struct {
	ID          uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                        `gorm:"size:150;not null" json:"name"`
	Description *string                       `gorm:"type:text" json:"description,omitempty"`
	Category    *string                       `gorm:"size:50;index" json:"category,omitempty"`
	IsActive    bool                          `gorm:"not null" json:"isActive"`
	Items       []ChecklistTemplateItemModel  `gorm:"foreignKey:TemplateID" json:"items"`
	CreatedAt   time.Time                     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time                     `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt                `gorm:"index" json:"deletedAt"`
}

func (ChecklistTemplateModel) TableName() string { return "checklist_templates" }

func (m *ChecklistTemplateModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ChecklistTemplateItemModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID    uuid.UUID `gorm:"type:uuid;not null;index" json:"templateId"`
	Label         string    `gorm:"size:200;not null" json:"label"`
	Description   *string   `gorm:"type:text" json:"description,omitempty"`
	RequiresPhoto bool      `gorm:"not null" json:"requiresPhoto"`
	Position      int       `gorm:"not null" json:"position"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ChecklistTemplateItemModel) TableName() string { return "checklist_template_items" }

func (m *ChecklistTemplateItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* ===== Instances ===== */

type ChecklistInstanceModel struct {
	ID             uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID     uuid.UUID                    `gorm:"type:uuid;not null;index" json:"templateId"`
	InterventionID uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex" json:"interventionId"`
	Status         string                       `gorm:"size:20;not null;index" json:"status"`
	ReviewedBy     *uuid.UUID                   `gorm:"type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time                   `json:"reviewedAt"`
	QualityScore   *int                         `json:"qualityScore"`
	ReviewNotes    *string                      `gorm:"type:text" json:"reviewNotes,omitempty"`
	Items          []ChecklistInstanceItemModel `gorm:"foreignKey:InstanceID" json:"items"`
	CreatedAt      time.Time                    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                    `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt      gorm.DeletedAt               `gorm:"index" json:"deletedAt"`
}

func (ChecklistInstanceModel) TableName() string { return "checklist_instances" }

func (m *ChecklistInstanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ChecklistInstanceItemModel struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	InstanceID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"instanceId"`
	TemplateItemID *uuid.UUID                  `gorm:"type:uuid" json:"templateItemId,omitempty"`
	Label          string                      `gorm:"size:200;not null" json:"label"`
	RequiresPhoto  bool                        `gorm:"not null" json:"requiresPhoto"`
	Position       int                         `gorm:"not null" json:"position"`
	IsCompleted    bool                        `gorm:"not null" json:"isCompleted"`
	CompletedBy    *uuid.UUID                  `gorm:"type:uuid" json:"completedBy,omitempty"`
	CompletedAt    *time.Time                  `json:"completedAt"`
	PhotoURLs      datatypes.JSONSlice[string] `gorm:"column:photo_urls" json:"photoUrls"`
	Notes          *string                     `gorm:"type:text" json:"notes,omitempty"`
	QualityRating  *int                        `json:"qualityRating"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ChecklistInstanceItemModel) TableName() string { return "checklist_instance_items" }

func (m *ChecklistInstanceItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
