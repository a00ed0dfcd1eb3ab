package dto

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"cleanops_backend/internals/features/contracts/contract/model"
	helper "cleanops_backend/internals/helpers"
)

type CreateContractRequest struct {
	ClientID     string             `json:"clientId" validate:"required,uuid"`
	SiteID       string             `json:"siteId" validate:"required,uuid"`
	Type         string             `json:"type" validate:"required,oneof=PERMANENT AD_HOC"`
	Frequency    string             `json:"frequency" validate:"required,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY ON_DEMAND"`
	StartDate    string             `json:"startDate" validate:"required,isodate"`
	EndDate      *string            `json:"endDate" validate:"required_if=Type AD_HOC,omitempty,isodate,gtedate=StartDate"`
	Status       string             `json:"status" validate:"omitempty,eq=DRAFT"`
	Pricing      model.PricingModel `json:"pricing" validate:"required"`
	ServiceScope model.ServiceScope `json:"serviceScope" validate:"required"`
	Notes        *string            `json:"notes" validate:"omitempty,max=2000"`
}

func (r *CreateContractRequest) Normalize() {
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	r.Frequency = strings.ToUpper(strings.TrimSpace(r.Frequency))
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	normalizePricing(&r.Pricing)
}

func normalizePricing(p *model.PricingModel) {
	p.Model = strings.ToUpper(strings.TrimSpace(p.Model))
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	p.BillingCycle = strings.ToUpper(strings.TrimSpace(p.BillingCycle))
}

func (r *CreateContractRequest) ToModel(code string) model.ContractModel {
	return model.ContractModel{
		ContractCode: code,
		ClientID:     uuid.MustParse(r.ClientID),
		SiteID:       uuid.MustParse(r.SiteID),
		Type:         r.Type,
		Frequency:    r.Frequency,
		StartDate:    helper.MustDate(r.StartDate),
		EndDate:      helper.OptionalDate(r.EndDate),
		Status:       model.StatusDraft,
		Pricing:      datatypes.NewJSONType(r.Pricing),
		ServiceScope: datatypes.NewJSONType(r.ServiceScope),
		Notes:        r.Notes,
	}
}

type UpdateContractRequest struct {
	Frequency    *string             `json:"frequency" validate:"omitempty,oneof=DAILY WEEKLY BIWEEKLY MONTHLY QUARTERLY ON_DEMAND"`
	StartDate    *string             `json:"startDate" validate:"omitempty,isodate"`
	EndDate      *string             `json:"endDate" validate:"omitempty,isodate,gtedate=StartDate"`
	Status       *string             `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE PAUSED COMPLETED CANCELLED"`
	Pricing      *model.PricingModel `json:"pricing"`
	ServiceScope *model.ServiceScope `json:"serviceScope"`
	Notes        *string             `json:"notes" validate:"omitempty,max=2000"`
}

func (r *UpdateContractRequest) Normalize() {
	if r.Frequency != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Frequency))
		r.Frequency = &v
	}
	if r.Status != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Status))
		r.Status = &v
	}
	if r.Pricing != nil {
		normalizePricing(r.Pricing)
	}
}

// BuildUpdateMap covers every field except status, which the service checks against the state machine.
func (r *UpdateContractRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if r.Frequency != nil {
		up["frequency"] = *r.Frequency
	}
	if r.StartDate != nil {
		up["start_date"] = helper.MustDate(*r.StartDate)
	}
	if r.EndDate != nil {
		up["end_date"] = helper.MustDate(*r.EndDate)
	}
	if r.Pricing != nil {
		up["pricing"] = datatypes.NewJSONType(*r.Pricing)
	}
	if r.ServiceScope != nil {
		up["service_scope"] = datatypes.NewJSONType(*r.ServiceScope)
	}
	if r.Notes != nil {
		up["notes"] = *r.Notes
	}
	return up
}

type ListContractsQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=DRAFT ACTIVE PAUSED COMPLETED CANCELLED"`
	Type     string `query:"type" validate:"omitempty,oneof=PERMANENT AD_HOC"`
	ClientID string `query:"clientId" validate:"omitempty,uuid"`
	SiteID   string `query:"siteId" validate:"omitempty,uuid"`
}
