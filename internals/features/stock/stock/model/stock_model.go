package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
)

type StockItemModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SKU         string         `gorm:"column:sku;size:50;not null;uniqueIndex" json:"sku"`
	Name        string         `gorm:"size:150;not null" json:"name"`
	Unit        string         `gorm:"size:20;not null" json:"unit"`
	Quantity    float64        `gorm:"not null" json:"quantity"`
	MinQuantity float64        `gorm:"not null" json:"minQuantity"`
	IsActive    bool           `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deletedAt"`
}

func (StockItemModel) TableName() string { return "stock_items" }

func (m *StockItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// StockMovementModel is an append-only ledger row.
type StockMovementModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"itemId"`
	MovementType   string     `gorm:"size:20;not null" json:"movementType"`
	Quantity       float64    `gorm:"not null" json:"quantity"`
	QuantityAfter  float64    `gorm:"not null" json:"quantityAfter"`
	Reason         *string    `gorm:"type:text" json:"reason,omitempty"`
	InterventionID *uuid.UUID `gorm:"type:uuid;index" json:"interventionId,omitempty"`
	PerformedBy    uuid.UUID  `gorm:"type:uuid;not null" json:"performedBy"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (StockMovementModel) TableName() string { return "stock_movements" }

func (m *StockMovementModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
