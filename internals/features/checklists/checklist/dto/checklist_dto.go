package dto

import (
	"strings"

	"cleanops_backend/internals/features/checklists/checklist/model"
)

/* ===== Templates ===== */

type TemplateItemRequest struct {
	Label         string  `json:"label" validate:"required,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=1000"`
	RequiresPhoto bool    `json:"requiresPhoto"`
}

type CreateTemplateRequest struct {
	Name        string                `json:"name" validate:"required,max=150"`
	Description *string               `json:"description" validate:"omitempty,max=2000"`
	Category    *string               `json:"category" validate:"omitempty,max=50"`
	IsActive    *bool                 `json:"isActive"`
	Items       []TemplateItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *CreateTemplateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	for i := range r.Items {
		r.Items[i].Label = strings.TrimSpace(r.Items[i].Label)
	}
}

func (r *CreateTemplateRequest) ToModel() model.ChecklistTemplateModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return model.ChecklistTemplateModel{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		IsActive:    active,
		Items:       ItemModels(r.Items),
	}
}

// ItemModels numbers the items in request order.
func ItemModels(items []TemplateItemRequest) []model.ChecklistTemplateItemModel {
	out := make([]model.ChecklistTemplateItemModel, 0, len(items))
	for i, it := range items {
		out = append(out, model.ChecklistTemplateItemModel{
			Label:         it.Label,
			Description:   it.Description,
			RequiresPhoto: it.RequiresPhoto,
			Position:      i + 1,
		})
	}
	return out
}

// UpdateTemplateRequest: when Items is present it replaces the whole item list.
type UpdateTemplateRequest struct {
	Name        *string               `json:"name" validate:"omitempty,max=150"`
	Description *string               `json:"description" validate:"omitempty,max=2000"`
	Category    *string               `json:"category" validate:"omitempty,max=50"`
	IsActive    *bool                 `json:"isActive"`
	Items       []TemplateItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

func (r *UpdateTemplateRequest) Normalize() {
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	for i := range r.Items {
		r.Items[i].Label = strings.TrimSpace(r.Items[i].Label)
	}
}

func (r *UpdateTemplateRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if r.Name != nil {
		up["name"] = *r.Name
	}
	if r.Description != nil {
		up["description"] = *r.Description
	}
	if r.Category != nil {
		up["category"] = *r.Category
	}
	if r.IsActive != nil {
		up["is_active"] = *r.IsActive
	}
	return up
}

type ListTemplatesQuery struct {
	Category string `query:"category" validate:"omitempty,max=50"`
	IsActive string `query:"isActive" validate:"omitempty,oneof=true false"`
}

/* ===== Instances ===== */

type CreateInstanceRequest struct {
	TemplateID     string `json:"templateId" validate:"required,uuid"`
	InterventionID string `json:"interventionId" validate:"required,uuid"`
}

type CompleteItemRequest struct {
	PhotoURLs     []string `json:"photoUrls" validate:"omitempty,dive,url"`
	Notes         *string  `json:"notes" validate:"omitempty,max=2000"`
	QualityRating *int     `json:"qualityRating" validate:"omitempty,gte=1,lte=5"`
}

type ReviewRequest struct {
	QualityScore int     `json:"qualityScore" validate:"required,gte=1,lte=5"`
	ReviewNotes  *string `json:"reviewNotes" validate:"omitempty,max=2000"`
}

type ListInstancesQuery struct {
	InterventionID string `query:"interventionId" validate:"omitempty,uuid"`
	TemplateID     string `query:"templateId" validate:"omitempty,uuid"`
	Status         string `query:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED REVIEWED"`
}
