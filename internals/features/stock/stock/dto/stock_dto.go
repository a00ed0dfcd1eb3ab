package dto

import (
	"strings"

	"cleanops_backend/internals/features/stock/stock/model"
	helper "cleanops_backend/internals/helpers"
)

/* ===== Items ===== */

type CreateItemRequest struct {
	SKU         string   `json:"sku" validate:"required,max=50"`
	Name        string   `json:"name" validate:"required,max=150"`
	Unit        string   `json:"unit" validate:"required,max=20"`
	Quantity    *float64 `json:"quantity" validate:"omitempty,gte=0"`
	MinQuantity *float64 `json:"minQuantity" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
}

func (r *CreateItemRequest) Normalize() {
	r.SKU = strings.ToUpper(strings.TrimSpace(r.SKU))
	r.Name = strings.TrimSpace(r.Name)
	r.Unit = strings.TrimSpace(r.Unit)
}

// ToModel starts the item at zero; an opening quantity is booked as a movement.
func (r *CreateItemRequest) ToModel() model.StockItemModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	m := model.StockItemModel{SKU: r.SKU, Name: r.Name, Unit: r.Unit, IsActive: active}
	if r.MinQuantity != nil {
		m.MinQuantity = *r.MinQuantity
	}
	return m
}

// UpdateItemRequest cannot change quantity; use movements.
type UpdateItemRequest struct {
	SKU         *string  `json:"sku" validate:"omitempty,max=50"`
	Name        *string  `json:"name" validate:"omitempty,max=150"`
	Unit        *string  `json:"unit" validate:"omitempty,max=20"`
	MinQuantity *float64 `json:"minQuantity" validate:"omitempty,gte=0"`
	IsActive    *bool    `json:"isActive"`
}

func (r *UpdateItemRequest) Normalize() {
	if r.SKU != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.SKU))
		r.SKU = &v
	}
}

func (r *UpdateItemRequest) BuildUpdateMap() map[string]any {
	up := map[string]any{}
	if r.SKU != nil {
		up["sku"] = *r.SKU
	}
	if r.Name != nil {
		up["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Unit != nil {
		up["unit"] = strings.TrimSpace(*r.Unit)
	}
	if r.MinQuantity != nil {
		up["min_quantity"] = *r.MinQuantity
	}
	if r.IsActive != nil {
		up["is_active"] = *r.IsActive
	}
	return up
}

type ListItemsQuery struct {
	LowStock string `query:"lowStock" validate:"omitempty,oneof=true false"`
	IsActive string `query:"isActive" validate:"omitempty,oneof=true false"`
}

/* ===== Movements ===== */

// CreateMovementRequest: IN/OUT carry a positive delta, ADJUSTMENT the counted absolute level.
type CreateMovementRequest struct {
	ItemID         string  `json:"itemId" validate:"required,uuid"`
	MovementType   string  `json:"movementType" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity       float64 `json:"quantity" validate:"gte=0"`
	Reason         *string `json:"reason" validate:"omitempty,max=1000"`
	InterventionID *string `json:"interventionId" validate:"omitempty,uuid"`
}

func (r *CreateMovementRequest) ToModel() model.StockMovementModel {
	return model.StockMovementModel{
		ItemID:         helper.MustUUID(r.ItemID),
		MovementType:   r.MovementType,
		Quantity:       r.Quantity,
		Reason:         r.Reason,
		InterventionID: helper.ParseOptionalUUID(r.InterventionID),
	}
}

type ListMovementsQuery struct {
	ItemID         string `query:"itemId" validate:"omitempty,uuid"`
	Type           string `query:"type" validate:"omitempty,oneof=IN OUT ADJUSTMENT"`
	InterventionID string `query:"interventionId" validate:"omitempty,uuid"`
}
