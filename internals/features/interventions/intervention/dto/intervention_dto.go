package dto

import (
	"cleanops_backend/internals/features/interventions/intervention/model"
	helper "cleanops_backend/internals/helpers"
)

type CreateInterventionRequest struct {
	ContractID         string   `json:"contractId" validate:"required,uuid"`
	SiteID             *string  `json:"siteId" validate:"omitempty,uuid"`
	ScheduleID         *string  `json:"scheduleId" validate:"omitempty,uuid"`
	ZoneID             *string  `json:"zoneId" validate:"omitempty,uuid"`
	TeamChiefID        *string  `json:"teamChiefId" validate:"omitempty,uuid"`
	ScheduledDate      string   `json:"scheduledDate" validate:"required,isodate"`
	ScheduledStartTime string   `json:"scheduledStartTime" validate:"required,hhmm"`
	ScheduledEndTime   string   `json:"scheduledEndTime" validate:"required,hhmm,gttime=ScheduledStartTime"`
	AgentIDs           []string `json:"agentIds" validate:"omitempty,unique,dive,uuid"`
	Notes              *string  `json:"notes" validate:"omitempty,max=2000"`
}

// ToModel leaves SiteID and code to the service.
func (r *CreateInterventionRequest) ToModel() model.InterventionModel {
	return model.InterventionModel{
		ContractID:         helper.MustUUID(r.ContractID),
		ScheduleID:         helper.ParseOptionalUUID(r.ScheduleID),
		ZoneID:             helper.ParseOptionalUUID(r.ZoneID),
		TeamChiefID:        helper.ParseOptionalUUID(r.TeamChiefID),
		ScheduledDate:      helper.MustDate(r.ScheduledDate),
		ScheduledStartTime: r.ScheduledStartTime,
		ScheduledEndTime:   r.ScheduledEndTime,
		Status:             model.StatusScheduled,
		PhotoURLs:          []string{},
		Notes:              r.Notes,
	}
}

type UpdateInterventionRequest struct {
	ZoneID             *string `json:"zoneId" validate:"omitempty,uuid"`
	TeamChiefID        *string `json:"teamChiefId" validate:"omitempty,uuid"`
	Notes              *string `json:"notes" validate:"omitempty,max=2000"`
	QualityScore       *int    `json:"qualityScore" validate:"omitempty,gte=1,lte=5"`
	ClientRating       *int    `json:"clientRating" validate:"omitempty,gte=1,lte=5"`
	ClientFeedback     *string `json:"clientFeedback" validate:"omitempty,max=2000"`
	Status             *string `json:"status" validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED POSTPONED"`
	CancellationReason *string `json:"cancellationReason" validate:"omitempty,max=1000"`
}

func (r *UpdateInterventionRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if id := helper.ParseOptionalUUID(r.ZoneID); id != nil {
		up["zone_id"] = *id
	}
	if id := helper.ParseOptionalUUID(r.TeamChiefID); id != nil {
		up["team_chief_id"] = *id
	}
	if r.Notes != nil {
		up["notes"] = *r.Notes
	}
	if r.QualityScore != nil {
		up["quality_score"] = *r.QualityScore
	}
	if r.ClientRating != nil {
		up["client_rating"] = *r.ClientRating
	}
	if r.ClientFeedback != nil {
		up["client_feedback"] = *r.ClientFeedback
	}
	if r.CancellationReason != nil {
		up["cancellation_reason"] = *r.CancellationReason
	}
	return up
}

// GPSRequest is the body of check-in and check-out.
type GPSRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Accuracy  *float64 `json:"accuracy" validate:"omitempty,gte=0"`
	Notes     *string  `json:"notes" validate:"omitempty,max=2000"`
}

type RescheduleRequest struct {
	NewDate      string  `json:"newDate" validate:"required,isodate"`
	NewStartTime string  `json:"newStartTime" validate:"required,hhmm"`
	NewEndTime   string  `json:"newEndTime" validate:"required,hhmm,gttime=NewStartTime"`
	Reason       *string `json:"reason" validate:"omitempty,max=1000"`
}

type CancelRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}

type SetAgentsRequest struct {
	AgentIDs []string `json:"agentIds" validate:"required,unique,dive,uuid"`
}

type ListInterventionsQuery struct {
	Status      string `query:"status" validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED POSTPONED"`
	ContractID  string `query:"contractId" validate:"omitempty,uuid"`
	SiteID      string `query:"siteId" validate:"omitempty,uuid"`
	ZoneID      string `query:"zoneId" validate:"omitempty,uuid"`
	ScheduleID  string `query:"scheduleId" validate:"omitempty,uuid"`
	AgentID     string `query:"agentId" validate:"omitempty,uuid"`
	TeamChiefID string `query:"teamChiefId" validate:"omitempty,uuid"`
	From        string `query:"from" validate:"omitempty,isodate"`
	To          string `query:"to" validate:"omitempty,isodate,gtedate=From"`
}
