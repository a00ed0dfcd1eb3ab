package dto

import (
	"cleanops_backend/internals/features/absences/absence/model"
	helper "cleanops_backend/internals/helpers"
)

type CreateAbsenceRequest struct {
	AgentID     string  `json:"agentId" validate:"required,uuid"`
	AbsenceType string  `json:"absenceType" validate:"required,oneof=VACATION SICK_LEAVE UNPAID AUTHORIZED UNAUTHORIZED"`
	StartDate   string  `json:"startDate" validate:"required,isodate"`
	EndDate     string  `json:"endDate" validate:"required,isodate,gtedate=StartDate"`
	Reason      *string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *CreateAbsenceRequest) ToModel() model.AbsenceModel {
	return model.AbsenceModel{
		AgentID:     helper.MustUUID(r.AgentID),
		AbsenceType: r.AbsenceType,
		StartDate:   helper.MustDate(r.StartDate),
		EndDate:     helper.MustDate(r.EndDate),
		Reason:      r.Reason,
	}
}

type UpdateAbsenceRequest struct {
	AbsenceType *string `json:"absenceType" validate:"omitempty,oneof=VACATION SICK_LEAVE UNPAID AUTHORIZED UNAUTHORIZED"`
	StartDate   *string `json:"startDate" validate:"omitempty,isodate"`
	EndDate     *string `json:"endDate" validate:"omitempty,isodate,gtedate=StartDate"`
	Reason      *string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *UpdateAbsenceRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if r.AbsenceType != nil {
		up["absence_type"] = *r.AbsenceType
	}
	if r.StartDate != nil {
		up["start_date"] = helper.MustDate(*r.StartDate)
	}
	if r.EndDate != nil {
		up["end_date"] = helper.MustDate(*r.EndDate)
	}
	if r.Reason != nil {
		up["reason"] = *r.Reason
	}
	return up
}

// ListAbsencesQuery: from/to select absences overlapping the window.
type ListAbsencesQuery struct {
	AgentID string `query:"agentId" validate:"omitempty,uuid"`
	Type    string `query:"type" validate:"omitempty,oneof=VACATION SICK_LEAVE UNPAID AUTHORIZED UNAUTHORIZED"`
	From    string `query:"from" validate:"omitempty,isodate"`
	To      string `query:"to" validate:"omitempty,isodate,gtedate=From"`
}
