package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cleanops_backend/internals/helpers/dbtime"
)

const (
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
	StatusPostponed  = "POSTPONED"
)

type InterventionModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	InterventionCode   string     `gorm:"column:intervention_code;size:20;not null;uniqueIndex" json:"interventionCode"`
	ContractID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"contractId"`
	SiteID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"siteId"`
	ScheduleID         *uuid.UUID `gorm:"type:uuid;index" json:"scheduleId,omitempty"`
	ZoneID             *uuid.UUID `gorm:"type:uuid;index" json:"zoneId,omitempty"`
	TeamChiefID        *uuid.UUID `gorm:"type:uuid;index" json:"teamChiefId,omitempty"`
	ScheduledDate      dbtime.Date `gorm:"not null;index" json:"scheduledDate"`
	ScheduledStartTime string     `gorm:"size:5;not null" json:"scheduledStartTime"`
	ScheduledEndTime   string     `gorm:"size:5;not null" json:"scheduledEndTime"`
	Status             string     `gorm:"size:20;not null;index" json:"status"`

	CheckInAt             *time.Time `json:"checkInAt"`
	CheckInLatitude       *float64   `json:"checkInLatitude"`
	CheckInLongitude      *float64   `json:"checkInLongitude"`
	CheckInAccuracy       *float64   `json:"checkInAccuracy"`
	CheckInDistanceMeters *float64   `json:"checkInDistanceMeters"`
	CheckInWithinGeofence *bool      `json:"checkInWithinGeofence"`
	CheckOutAt            *time.Time `json:"checkOutAt"`
	CheckOutLatitude      *float64   `json:"checkOutLatitude"`
	CheckOutLongitude     *float64   `json:"checkOutLongitude"`
	CheckOutAccuracy      *float64   `json:"checkOutAccuracy"`
	ActualDurationMinutes *int       `json:"actualDurationMinutes"`

	AgentIDs           []uuid.UUID                 `gorm:"-" json:"agentIds"`
	PhotoURLs          datatypes.JSONSlice[string] `gorm:"column:photo_urls" json:"photoUrls"`
	Notes              *string                     `gorm:"type:text" json:"notes,omitempty"`
	QualityScore       *int                        `json:"qualityScore"`
	ClientRating       *int                        `json:"clientRating"`
	ClientFeedback     *string                     `gorm:"type:text" json:"clientFeedback,omitempty"`
	CancellationReason *string                     `gorm:"type:text" json:"cancellationReason,omitempty"`
	PostponedFromDate  *dbtime.Date                `json:"postponedFromDate"`
	PostponeReason     *string                     `gorm:"type:text" json:"postponeReason,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (InterventionModel) TableName() string { return "interventions" }

func (m *InterventionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// InterventionAgentModel links field agents to an intervention.
type InterventionAgentModel struct {
	InterventionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"interventionId"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"userId"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (InterventionAgentModel) TableName() string { return "intervention_agents" }

/* ===== Status machine ===== */

var transitions = map[string][]string{
	StatusScheduled:  {StatusInProgress, StatusPostponed, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusPostponed, StatusCancelled},
	StatusPostponed:  {StatusInProgress, StatusPostponed, StatusCancelled},
}

func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
