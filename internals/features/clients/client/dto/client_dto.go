package dto

import (
	"strings"

	"cleanops_backend/internals/features/clients/client/model"
)

type CreateClientRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Type        string  `json:"type" validate:"required,oneof=INDIVIDUAL COMPANY MULTISITE"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	ContactName *string `json:"contactName" validate:"omitempty,max=150"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	PostalCode  *string `json:"postalCode" validate:"omitempty,max=20"`
	Country     *string `json:"country" validate:"omitempty,len=2"`
	VatNumber   *string `json:"vatNumber" validate:"omitempty,max=30"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
	Status      string  `json:"status" validate:"omitempty,oneof=PROSPECT ACTIVE SUSPENDED ARCHIVED"`
}

func (r *CreateClientRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Country != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Country))
		r.Country = &v
	}
}

func (r *CreateClientRequest) ToModel(code string) model.ClientModel {
	status := r.Status
	if status == "" {
		status = model.StatusProspect
	}
	return model.ClientModel{
		ClientCode:  code,
		Name:        r.Name,
		Type:        r.Type,
		Email:       r.Email,
		Phone:       r.Phone,
		ContactName: r.ContactName,
		Address:     r.Address,
		City:        r.City,
		PostalCode:  r.PostalCode,
		Country:     r.Country,
		VatNumber:   r.VatNumber,
		Notes:       r.Notes,
		Status:      status,
	}
}

type UpdateClientRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Type        *string `json:"type" validate:"omitempty,oneof=INDIVIDUAL COMPANY MULTISITE"`
	Email       *string `json:"email" validate:"omitempty,email,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	ContactName *string `json:"contactName" validate:"omitempty,max=150"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	PostalCode  *string `json:"postalCode" validate:"omitempty,max=20"`
	Country     *string `json:"country" validate:"omitempty,len=2"`
	VatNumber   *string `json:"vatNumber" validate:"omitempty,max=30"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
	Status      *string `json:"status" validate:"omitempty,oneof=PROSPECT ACTIVE SUSPENDED ARCHIVED"`
}

func (r *UpdateClientRequest) Normalize() {
	upper := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.ToUpper(strings.TrimSpace(*p))
		return &v
	}
	r.Type = upper(r.Type)
	r.Status = upper(r.Status)
	r.Country = upper(r.Country)
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
}

func (r *UpdateClientRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			up[col] = *v
		}
	}
	set("name", r.Name)
	set("type", r.Type)
	set("email", r.Email)
	set("phone", r.Phone)
	set("contact_name", r.ContactName)
	set("address", r.Address)
	set("city", r.City)
	set("postal_code", r.PostalCode)
	set("country", r.Country)
	set("vat_number", r.VatNumber)
	set("notes", r.Notes)
	set("status", r.Status)
	return up
}

type ListClientsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=PROSPECT ACTIVE SUSPENDED ARCHIVED"`
	Type   string `query:"type" validate:"omitempty,oneof=INDIVIDUAL COMPANY MULTISITE"`
}
