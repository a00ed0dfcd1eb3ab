package dto

import (
	"strings"

	"cleanops_backend/internals/features/schedules/schedule/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/dbtime"
)

type CreateScheduleRequest struct {
	ContractID        string  `json:"contractId" validate:"required,uuid"`
	SiteID            string  `json:"siteId" validate:"required,uuid"`
	ZoneID            *string `json:"zoneId" validate:"omitempty,uuid"`
	RecurrencePattern string  `json:"recurrencePattern" validate:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY"`
	StartTime         string  `json:"startTime" validate:"required,hhmm"`
	EndTime           string  `json:"endTime" validate:"required,hhmm,gttime=StartTime"`
	ValidFrom         string  `json:"validFrom" validate:"required,isodate"`
	ValidUntil        *string `json:"validUntil" validate:"omitempty,isodate,gtedate=ValidFrom"`
	TeamChiefID       *string `json:"teamChiefId" validate:"omitempty,uuid"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *CreateScheduleRequest) Normalize() {
	r.RecurrencePattern = strings.ToUpper(strings.TrimSpace(r.RecurrencePattern))
}

func (r *CreateScheduleRequest) ToModel() model.ScheduleModel {
	return model.ScheduleModel{
		ContractID:        helper.MustUUID(r.ContractID),
		SiteID:            helper.MustUUID(r.SiteID),
		ZoneID:            helper.ParseOptionalUUID(r.ZoneID),
		RecurrencePattern: r.RecurrencePattern,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		ValidFrom:         helper.MustDate(r.ValidFrom),
		ValidUntil:        helper.OptionalDate(r.ValidUntil),
		Status:            model.StatusActive,
		TeamChiefID:       helper.ParseOptionalUUID(r.TeamChiefID),
		Notes:             r.Notes,
	}
}

type UpdateScheduleRequest struct {
	ZoneID            *string `json:"zoneId" validate:"omitempty,uuid"`
	RecurrencePattern *string `json:"recurrencePattern" validate:"omitempty,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY"`
	StartTime         *string `json:"startTime" validate:"omitempty,hhmm"`
	EndTime           *string `json:"endTime" validate:"omitempty,hhmm,gttime=StartTime"`
	ValidFrom         *string `json:"validFrom" validate:"omitempty,isodate"`
	ValidUntil        *string `json:"validUntil" validate:"omitempty,isodate,gtedate=ValidFrom"`
	Status            *string `json:"status" validate:"omitempty,oneof=ACTIVE PAUSED COMPLETED"`
	TeamChiefID       *string `json:"teamChiefId" validate:"omitempty,uuid"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *UpdateScheduleRequest) Normalize() {
	for _, p := range []**string{&r.RecurrencePattern, &r.Status} {
		if *p != nil {
			v := strings.ToUpper(strings.TrimSpace(**p))
			*p = &v
		}
	}
}

// BuildUpdateMap leaves status to the service.
func (r *UpdateScheduleRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if id := helper.ParseOptionalUUID(r.ZoneID); id != nil {
		up["zone_id"] = *id
	}
	if r.RecurrencePattern != nil {
		up["recurrence_pattern"] = *r.RecurrencePattern
	}
	if r.StartTime != nil {
		up["start_time"] = *r.StartTime
	}
	if r.EndTime != nil {
		up["end_time"] = *r.EndTime
	}
	if r.ValidFrom != nil {
		up["valid_from"] = helper.MustDate(*r.ValidFrom)
	}
	if r.ValidUntil != nil {
		up["valid_until"] = helper.MustDate(*r.ValidUntil)
	}
	if id := helper.ParseOptionalUUID(r.TeamChiefID); id != nil {
		up["team_chief_id"] = *id
	}
	if r.Notes != nil {
		up["notes"] = *r.Notes
	}
	return up
}

type ListSchedulesQuery struct {
	Status            string `query:"status" validate:"omitempty,oneof=ACTIVE PAUSED COMPLETED"`
	ContractID        string `query:"contractId" validate:"omitempty,uuid"`
	SiteID            string `query:"siteId" validate:"omitempty,uuid"`
	ZoneID            string `query:"zoneId" validate:"omitempty,uuid"`
	RecurrencePattern string `query:"recurrencePattern" validate:"omitempty,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY"`
}

type GenerateRequest struct {
	StartDate *string `json:"startDate" validate:"omitempty,isodate"`
	EndDate   *string `json:"endDate" validate:"omitempty,isodate,gtedate=StartDate"`
	DaysAhead *int    `json:"daysAhead" validate:"omitempty,gte=1,lte=366"`
}

type GenerateResult struct {
	ScheduleID string      `json:"scheduleId"`
	From       dbtime.Date `json:"from"`
	To         dbtime.Date `json:"to"`
	Created    int         `json:"created"`
	Skipped    int         `json:"skipped"`
	Dates      []string    `json:"dates"`
}
