package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/checklists/checklist/dto"
	"cleanops_backend/internals/features/checklists/checklist/model"
	interventionModel "cleanops_backend/internals/features/interventions/intervention/model"
	helper "cleanops_backend/internals/helpers"
)

var sortableTemplates = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"category":  "category",
}

var sortableInstances = map[string]string{
	"createdAt": "created_at",
	"status":    "status",
}

type ChecklistService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewChecklistService(db *gorm.DB, log *zap.Logger) *ChecklistService {
	return &ChecklistService{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func byPosition(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

/* ===============================
   Templates
=================================*/

func (s *ChecklistService) ListTemplates(ctx context.Context, lq helper.ListQuery, f dto.ListTemplatesQuery) ([]model.ChecklistTemplateModel, helper.Pagination, error) {
	db := s.db.WithContext(ctx)
	q := helper.ApplySearch(db.Model(&model.ChecklistTemplateModel{}), lq, "name")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.IsActive != "" {
		q = q.Where("is_active = ?", f.IsActive == "true")
	}
	rows, p, err := helper.Paginate[model.ChecklistTemplateModel](q, lq, sortableTemplates, "createdAt")
	if err != nil || len(rows) == 0 {
		return rows, p, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var items []model.ChecklistTemplateItemModel
	if err := db.Where("template_id IN ?", ids).Order("position ASC").Find(&items).Error; err != nil {
		return nil, p, fmt.Errorf("load template items: %w", err)
	}
	byTemplate := make(map[uuid.UUID][]model.ChecklistTemplateItemModel, len(rows))
	for _, it := range items {
		byTemplate[it.TemplateID] = append(byTemplate[it.TemplateID], it)
	}
	for i := range rows {
		rows[i].Items = byTemplate[rows[i].ID]
	}
	return rows, p, nil
}

func (s *ChecklistService) GetTemplate(ctx context.Context, id uuid.UUID) (*model.ChecklistTemplateModel, error) {
	return helper.FindAny[model.ChecklistTemplateModel](s.db.WithContext(ctx).Preload("Items", byPosition), id, "checklist template")
}

func (s *ChecklistService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (*model.ChecklistTemplateModel, error) {
	m := req.ToModel()
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create checklist template: %w", err)
	}
	return &m, nil
}

func (s *ChecklistService) UpdateTemplate(ctx context.Context, id uuid.UUID, req dto.UpdateTemplateRequest) (*model.ChecklistTemplateModel, error) {
	var out *model.ChecklistTemplateModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := helper.FindLive[model.ChecklistTemplateModel](tx, id, "checklist template")
		if err != nil {
			return err
		}
		if up := req.BuildUpdateMap(); len(up) > 0 {
			if err := tx.Model(m).Updates(up).Error; err != nil {
				return fmt.Errorf("update checklist template: %w", err)
			}
		}
		if req.Items != nil {
			if err := tx.Where("template_id = ?", id).Delete(&model.ChecklistTemplateItemModel{}).Error; err != nil {
				return fmt.Errorf("clear template items: %w", err)
			}
			items := dto.ItemModels(req.Items)
			for i := range items {
				items[i].TemplateID = id
			}
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("replace template items: %w", err)
			}
		}
		out, err = helper.FindLive[model.ChecklistTemplateModel](tx.Preload("Items", byPosition), id, "checklist template")
		return err
	})
	return out, err
}

// DeleteTemplate soft-deletes the template; existing instances keep their copied items.
func (s *ChecklistService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.ChecklistTemplateModel](db, id, "checklist template")
	if err != nil {
		return err
	}
	return db.Delete(m).Error
}

/* ===============================
   Instances
=================================*/

func (s *ChecklistService) ListInstances(ctx context.Context, lq helper.ListQuery, f dto.ListInstancesQuery) ([]model.ChecklistInstanceModel, helper.Pagination, error) {
	db := s.db.WithContext(ctx)
	q := db.Model(&model.ChecklistInstanceModel{})
	if f.InterventionID != "" {
		q = q.Where("intervention_id = ?", f.InterventionID)
	}
	if f.TemplateID != "" {
		q = q.Where("template_id = ?", f.TemplateID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	rows, p, err := helper.Paginate[model.ChecklistInstanceModel](q, lq, sortableInstances, "createdAt")
	if err != nil || len(rows) == 0 {
		return rows, p, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var items []model.ChecklistInstanceItemModel
	if err := db.Where("instance_id IN ?", ids).Order("position ASC").Find(&items).Error; err != nil {
		return nil, p, fmt.Errorf("load checklist items: %w", err)
	}
	byInstance := make(map[uuid.UUID][]model.ChecklistInstanceItemModel, len(rows))
	for _, it := range items {
		byInstance[it.InstanceID] = append(byInstance[it.InstanceID], it)
	}
	for i := range rows {
		rows[i].Items = byInstance[rows[i].ID]
	}
	return rows, p, nil
}

func (s *ChecklistService) GetInstance(ctx context.Context, id uuid.UUID) (*model.ChecklistInstanceModel, error) {
	return helper.FindAny[model.ChecklistInstanceModel](s.db.WithContext(ctx).Preload("Items", byPosition), id, "checklist instance")
}

// CreateInstance copies the template items onto a new checklist for the intervention.
func (s *ChecklistService) CreateInstance(ctx context.Context, req dto.CreateInstanceRequest) (*model.ChecklistInstanceModel, error) {
	templateID := helper.MustUUID(req.TemplateID)
	interventionID := helper.MustUUID(req.InterventionID)

	var out *model.ChecklistInstanceModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		iv, err := helper.FindLive[interventionModel.InterventionModel](tx, interventionID, "intervention")
		if err != nil {
			return err
		}
		if iv.Status == interventionModel.StatusCancelled {
			return helper.NewConflict("intervention %s is CANCELLED", iv.ID)
		}
		tpl, err := helper.FindLive[model.ChecklistTemplateModel](tx.Preload("Items", byPosition), templateID, "checklist template")
		if err != nil {
			return err
		}
		if !tpl.IsActive {
			return helper.NewConflict("checklist template %s is inactive", tpl.ID)
		}

		var n int64
		if err := tx.Unscoped().Model(&model.ChecklistInstanceModel{}).
			Where("intervention_id = ?", interventionID).Count(&n).Error; err != nil {
			return fmt.Errorf("check existing checklist: %w", err)
		}
		if n > 0 {
			return helper.NewConflict("intervention %s already has a checklist", interventionID)
		}

		inst := model.ChecklistInstanceModel{
			TemplateID:     tpl.ID,
			InterventionID: interventionID,
			Status:         model.InstancePending,
		}
		for _, it := range tpl.Items {
			itemID := it.ID
			inst.Items = append(inst.Items, model.ChecklistInstanceItemModel{
				TemplateItemID: &itemID,
				Label:          it.Label,
				RequiresPhoto:  it.RequiresPhoto,
				Position:       it.Position,
				PhotoURLs:      []string{},
			})
		}
		if err := tx.Create(&inst).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.NewConflict("intervention %s already has a checklist", interventionID)
			}
			return fmt.Errorf("create checklist: %w", err)
		}
		out = &inst
		return nil
	})
	return out, err
}

// CompleteItem marks one item done; the instance moves to IN_PROGRESS, then COMPLETED once no item is left.
func (s *ChecklistService) CompleteItem(ctx context.Context, instanceID, itemID, userID uuid.UUID, req dto.CompleteItemRequest) (*model.ChecklistInstanceModel, error) {
	var out *model.ChecklistInstanceModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inst, err := helper.FindLive[model.ChecklistInstanceModel](tx, instanceID, "checklist instance")
		if err != nil {
			return err
		}
		if inst.Status == model.InstanceCompleted || inst.Status == model.InstanceReviewed {
			return helper.NewConflict("checklist %s is %s", instanceID, inst.Status)
		}

		var item model.ChecklistInstanceItemModel
		if err := tx.Where("id = ? AND instance_id = ?", itemID, instanceID).Take(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NewNotFound("checklist item", itemID)
			}
			return fmt.Errorf("load checklist item: %w", err)
		}
		if item.IsCompleted {
			return helper.NewConflict("checklist item %s is already completed", itemID)
		}
		if item.RequiresPhoto && len(req.PhotoURLs) == 0 {
			return helper.NewFieldError("photoUrls", "photoUrls is required for this item")
		}

		photos := req.PhotoURLs
		if photos == nil {
			photos = []string{}
		}
		up := map[string]any{
			"is_completed": true,
			"completed_by": userID,
			"completed_at": s.now(),
			"photo_urls":   datatypes.JSONSlice[string](photos),
		}
		if req.Notes != nil {
			up["notes"] = *req.Notes
		}
		if req.QualityRating != nil {
			up["quality_rating"] = *req.QualityRating
		}
		if err := tx.Model(&item).Updates(up).Error; err != nil {
			return fmt.Errorf("complete checklist item: %w", err)
		}

		var open int64
		if err := tx.Model(&model.ChecklistInstanceItemModel{}).
			Where("instance_id = ? AND is_completed = ?", instanceID, false).
			Count(&open).Error; err != nil {
			return fmt.Errorf("count open items: %w", err)
		}
		next := model.InstanceInProgress
		if open == 0 {
			next = model.InstanceCompleted
		}
		if next != inst.Status {
			if err := tx.Model(inst).Update("status", next).Error; err != nil {
				return fmt.Errorf("advance checklist: %w", err)
			}
		}

		out, err = helper.FindLive[model.ChecklistInstanceModel](tx.Preload("Items", byPosition), instanceID, "checklist instance")
		return err
	})
	return out, err
}

// Review closes a COMPLETED checklist and copies its quality score onto the intervention.
func (s *ChecklistService) Review(ctx context.Context, instanceID, reviewerID uuid.UUID, req dto.ReviewRequest) (*model.ChecklistInstanceModel, error) {
	var out *model.ChecklistInstanceModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inst, err := helper.FindLive[model.ChecklistInstanceModel](tx, instanceID, "checklist instance")
		if err != nil {
			return err
		}
		if inst.Status != model.InstanceCompleted {
			return helper.NewInvalidTransition("checklist", inst.Status, model.InstanceReviewed)
		}
		up := map[string]any{
			"status":        model.InstanceReviewed,
			"reviewed_by":   reviewerID,
			"reviewed_at":   s.now(),
			"quality_score": req.QualityScore,
		}
		if req.ReviewNotes != nil {
			up["review_notes"] = *req.ReviewNotes
		}
		if err := tx.Model(inst).Updates(up).Error; err != nil {
			return fmt.Errorf("review checklist: %w", err)
		}
		if err := tx.Model(&interventionModel.InterventionModel{}).
			Where("id = ?", inst.InterventionID).
			Update("quality_score", req.QualityScore).Error; err != nil {
			return fmt.Errorf("propagate quality score: %w", err)
		}

		out, err = helper.FindLive[model.ChecklistInstanceModel](tx.Preload("Items", byPosition), instanceID, "checklist instance")
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("checklist reviewed",
		zap.String("instance_id", instanceID.String()),
		zap.Int("quality_score", req.QualityScore),
	)
	return out, nil
}
