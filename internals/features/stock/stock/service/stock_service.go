package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	interventionModel "cleanops_backend/internals/features/interventions/intervention/model"
	"cleanops_backend/internals/features/stock/stock/dto"
	"cleanops_backend/internals/features/stock/stock/model"
	helper "cleanops_backend/internals/helpers"
)

var sortableItems = map[string]string{
	"createdAt": "created_at",
	"sku":       "sku",
	"name":      "name",
	"quantity":  "quantity",
}

var sortableMovements = map[string]string{
	"createdAt": "created_at",
	"quantity":  "quantity",
}

type StockService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStockService(db *gorm.DB, log *zap.Logger) *StockService {
	return &StockService{db: db, log: log}
}

/* ===============================
   Items
=================================*/

func (s *StockService) ListItems(ctx context.Context, lq helper.ListQuery, f dto.ListItemsQuery) ([]model.StockItemModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.StockItemModel{})
	q = helper.ApplySearch(q, lq, "sku", "name")
	switch f.LowStock {
	case "true":
		q = q.Where("quantity <= min_quantity")
	case "false":
		q = q.Where("quantity > min_quantity")
	}
	if f.IsActive != "" {
		q = q.Where("is_active = ?", f.IsActive == "true")
	}
	return helper.Paginate[model.StockItemModel](q, lq, sortableItems, "createdAt")
}

func (s *StockService) GetItem(ctx context.Context, id uuid.UUID) (*model.StockItemModel, error) {
	return helper.FindAny[model.StockItemModel](s.db.WithContext(ctx), id, "stock item")
}

// CreateItem books a non-zero opening quantity as an ADJUSTMENT by userID.
func (s *StockService) CreateItem(ctx context.Context, req dto.CreateItemRequest, userID uuid.UUID) (*model.StockItemModel, error) {
	m := req.ToModel()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.NewConflict("sku %s already exists", m.SKU)
			}
			return fmt.Errorf("create stock item: %w", err)
		}
		if req.Quantity == nil || *req.Quantity == 0 {
			return nil
		}
		reason := "opening balance"
		_, err := applyMovement(tx, &m, model.StockMovementModel{
			ItemID:       m.ID,
			MovementType: model.MovementAdjustment,
			Quantity:     *req.Quantity,
			Reason:       &reason,
			PerformedBy:  userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *StockService) UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*model.StockItemModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.StockItemModel](db, id, "stock item")
	if err != nil {
		return nil, err
	}
	up := req.BuildUpdateMap()
	if len(up) == 0 {
		return m, nil
	}
	if err := db.Model(m).Updates(up).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict("sku %s already exists", *req.SKU)
		}
		return nil, fmt.Errorf("update stock item: %w", err)
	}
	return helper.FindLive[model.StockItemModel](db, id, "stock item")
}

func (s *StockService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.StockItemModel](db, id, "stock item")
	if err != nil {
		return err
	}
	return db.Delete(m).Error
}

/* ===============================
   Movements
=================================*/

func (s *StockService) ListMovements(ctx context.Context, lq helper.ListQuery, f dto.ListMovementsQuery) ([]model.StockMovementModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.StockMovementModel{})
	if f.ItemID != "" {
		q = q.Where("item_id = ?", f.ItemID)
	}
	if f.Type != "" {
		q = q.Where("movement_type = ?", f.Type)
	}
	if f.InterventionID != "" {
		q = q.Where("intervention_id = ?", f.InterventionID)
	}
	return helper.Paginate[model.StockMovementModel](q, lq, sortableMovements, "createdAt")
}

// CreateMovement books one ledger row and moves the item quantity in the same transaction.
func (s *StockService) CreateMovement(ctx context.Context, req dto.CreateMovementRequest, userID uuid.UUID) (*model.StockMovementModel, error) {
	mv := req.ToModel()
	mv.PerformedBy = userID
	if mv.MovementType != model.MovementAdjustment && mv.Quantity <= 0 {
		return nil, helper.NewFieldError("quantity", "quantity must be greater than 0")
	}

	var out *model.StockMovementModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := helper.FindLive[model.StockItemModel](tx, mv.ItemID, "stock item")
		if err != nil {
			return err
		}
		if !item.IsActive {
			return helper.NewConflict("stock item %s is inactive", item.ID)
		}
		if mv.InterventionID != nil {
			if err := helper.EnsureExists(tx, &interventionModel.InterventionModel{}, *mv.InterventionID, "intervention"); err != nil {
				return err
			}
		}
		out, err = applyMovement(tx, item, mv)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("stock movement",
		zap.String("item_id", out.ItemID.String()),
		zap.String("type", out.MovementType),
		zap.Float64("quantity", out.Quantity),
		zap.Float64("quantity_after", out.QuantityAfter),
	)
	return out, nil
}

// applyMovement updates the quantity with a single conditional UPDATE so concurrent OUTs cannot drive it negative.
func applyMovement(tx *gorm.DB, item *model.StockItemModel, mv model.StockMovementModel) (*model.StockMovementModel, error) {
	q := tx.Model(&model.StockItemModel{}).Where("id = ?", item.ID)
	var res *gorm.DB
	switch mv.MovementType {
	case model.MovementIn:
		res = q.Update("quantity", gorm.Expr("quantity + ?", mv.Quantity))
	case model.MovementOut:
		res = q.Where("quantity >= ?", mv.Quantity).Update("quantity", gorm.Expr("quantity - ?", mv.Quantity))
	default:
		res = q.Update("quantity", mv.Quantity)
	}
	if res.Error != nil {
		return nil, fmt.Errorf("move stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, helper.NewConflict("insufficient stock for %s: requested %g, available %g", item.SKU, mv.Quantity, item.Quantity)
	}

	var after float64
	if err := tx.Model(&model.StockItemModel{}).Select("quantity").Where("id = ?", item.ID).Row().Scan(&after); err != nil {
		return nil, fmt.Errorf("read stock level: %w", err)
	}
	mv.QuantityAfter = after
	if err := tx.Create(&mv).Error; err != nil {
		return nil, fmt.Errorf("record stock movement: %w", err)
	}
	item.Quantity = after
	return &mv, nil
}
