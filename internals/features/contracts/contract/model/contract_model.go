package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cleanops_backend/internals/helpers/dbtime"
)

const (
	TypePermanent = "PERMANENT"
	TypeAdHoc     = "AD_HOC"

	StatusDraft     = "DRAFT"
	StatusActive    = "ACTIVE"
	StatusPaused    = "PAUSED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// PricingModel is the typed pricing of a contract.
type PricingModel struct {
	Model        string   `json:"model" validate:"required,oneof=FIXED_MONTHLY HOURLY PER_INTERVENTION"`
	BasePrice    float64  `json:"basePrice" validate:"gt=0"`
	Currency     string   `json:"currency" validate:"required,iso4217"`
	HourlyRate   *float64 `json:"hourlyRate,omitempty" validate:"required_if=Model HOURLY,omitempty,gt=0"`
	BillingCycle string   `json:"billingCycle" validate:"required,oneof=MONTHLY QUARTERLY YEARLY"`
}

// ServiceScope describes what the contract covers.
type ServiceScope struct {
	Tasks            []string `json:"tasks" validate:"required,min=1,dive,required,max=200"`
	SurfaceArea      *float64 `json:"surfaceArea,omitempty" validate:"omitempty,gt=0"`
	IncludesSupplies bool     `json:"includesSupplies"`
	Exclusions       []string `json:"exclusions,omitempty" validate:"omitempty,dive,max=200"`
	Notes            string   `json:"notes,omitempty" validate:"max=1000"`
}

type ContractModel struct {
	ID           uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	ContractCode string                           `gorm:"column:contract_code;size:20;not null;uniqueIndex" json:"contractCode"`
	ClientID     uuid.UUID                        `gorm:"type:uuid;not null;index" json:"clientId"`
	SiteID       uuid.UUID                        `gorm:"type:uuid;not null;index" json:"siteId"`
	Type         string                           `gorm:"size:20;not null" json:"type"`
	Frequency    string                           `gorm:"size:20;not null" json:"frequency"`
	StartDate    dbtime.Date                      `gorm:"not null" json:"startDate"`
	EndDate      *dbtime.Date                     `json:"endDate"`
	Status       string                           `gorm:"size:20;not null;index" json:"status"`
	Pricing      datatypes.JSONType[PricingModel] `json:"pricing"`
	ServiceScope datatypes.JSONType[ServiceScope] `gorm:"column:service_scope" json:"serviceScope"`
	Notes        *string                          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time                        `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time                        `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt                   `gorm:"index" json:"deletedAt"`
}

func (ContractModel) TableName() string { return "contracts" }

func (m *ContractModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* ===== Status machine ===== */

var transitions = map[string][]string{
	StatusDraft:  {StatusActive, StatusCancelled},
	StatusActive: {StatusPaused, StatusCompleted, StatusCancelled},
	StatusPaused: {StatusActive, StatusCancelled},
}

// CanTransition reports whether a contract may move from -> to.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal: COMPLETED and CANCELLED accept no further change.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// OpenStatuses are the states that still bind client and site.
var OpenStatuses = []string{StatusDraft, StatusActive, StatusPaused}
