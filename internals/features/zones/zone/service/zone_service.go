package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	siteModel "cleanops_backend/internals/features/clients/site/model"
	userModel "cleanops_backend/internals/features/users/user/model"
	"cleanops_backend/internals/features/zones/zone/dto"
	"cleanops_backend/internals/features/zones/zone/model"
	helper "cleanops_backend/internals/helpers"
)

var sortableZones = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"code":      "code",
}

var sortableAssignments = map[string]string{
	"createdAt": "created_at",
	"startDate": "start_date",
}

type ZoneService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewZoneService(db *gorm.DB, log *zap.Logger) *ZoneService {
	return &ZoneService{db: db, log: log}
}

func (s *ZoneService) List(ctx context.Context, lq helper.ListQuery, f dto.ListZonesQuery) ([]model.ZoneModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.ZoneModel{})
	q = helper.ApplySearch(q, lq, "name", "code")
	if f.IsActive != "" {
		q = q.Where("is_active = ?", f.IsActive == "true")
	}
	return helper.Paginate[model.ZoneModel](q, lq, sortableZones, "createdAt")
}

func (s *ZoneService) Get(ctx context.Context, id uuid.UUID) (*model.ZoneModel, error) {
	return helper.FindAny[model.ZoneModel](s.db.WithContext(ctx), id, "zone")
}

func (s *ZoneService) Create(ctx context.Context, req dto.CreateZoneRequest) (*model.ZoneModel, error) {
	db := s.db.WithContext(ctx)
	m := req.ToModel()
	if m.ChiefID != nil {
		if err := helper.EnsureExists(db, &userModel.UserModel{}, *m.ChiefID, "user"); err != nil {
			return nil, err
		}
	}
	if err := db.Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict("zone code %s already exists", m.Code)
		}
		return nil, fmt.Errorf("create zone: %w", err)
	}
	return &m, nil
}

func (s *ZoneService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateZoneRequest) (*model.ZoneModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.ZoneModel](db, id, "zone")
	if err != nil {
		return nil, err
	}
	if chief := helper.ParseOptionalUUID(req.ChiefID); chief != nil {
		if err := helper.EnsureExists(db, &userModel.UserModel{}, *chief, "user"); err != nil {
			return nil, err
		}
	}
	up := req.BuildUpdateMap()
	if len(up) == 0 {
		return m, nil
	}
	if err := db.Model(m).Updates(up).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.NewConflict("zone code already exists")
		}
		return nil, fmt.Errorf("update zone: %w", err)
	}
	return helper.FindLive[model.ZoneModel](db, id, "zone")
}

// Delete soft-deletes the zone together with its assignments.
func (s *ZoneService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := helper.FindLive[model.ZoneModel](tx, id, "zone")
		if err != nil {
			return err
		}
		if err := tx.Where("zone_id = ?", id).Delete(&model.ZoneAgentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("zone_id = ?", id).Delete(&model.ZoneSiteModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(m).Error
	})
}

/* ===== Agent assignments ===== */

func (s *ZoneService) ListAgents(ctx context.Context, zoneID uuid.UUID, lq helper.ListQuery) ([]model.ZoneAgentModel, helper.Pagination, error) {
	db := s.db.WithContext(ctx)
	if _, err := helper.FindAny[model.ZoneModel](db, zoneID, "zone"); err != nil {
		return nil, helper.Pagination{}, err
	}
	q := db.Model(&model.ZoneAgentModel{}).Where("zone_id = ?", zoneID)
	return helper.Paginate[model.ZoneAgentModel](q, lq, sortableAssignments, "createdAt")
}

func (s *ZoneService) AssignAgent(ctx context.Context, zoneID uuid.UUID, req dto.AssignAgentRequest) (*model.ZoneAgentModel, error) {
	var m model.ZoneAgentModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := helper.EnsureExists(tx, &model.ZoneModel{}, zoneID, "zone"); err != nil {
			return err
		}
		m = req.ToModel(zoneID)
		if err := helper.EnsureExists(tx, &userModel.UserModel{}, m.AgentID, "user"); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *ZoneService) RemoveAgent(ctx context.Context, zoneID, assignmentID uuid.UUID) error {
	db := s.db.WithContext(ctx)
	res := db.Where("id = ? AND zone_id = ?", assignmentID, zoneID).Delete(&model.ZoneAgentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NewNotFound("zone agent assignment", assignmentID)
	}
	return nil
}

/* ===== Site assignments ===== */

func (s *ZoneService) ListSites(ctx context.Context, zoneID uuid.UUID, lq helper.ListQuery) ([]model.ZoneSiteModel, helper.Pagination, error) {
	db := s.db.WithContext(ctx)
	if _, err := helper.FindAny[model.ZoneModel](db, zoneID, "zone"); err != nil {
		return nil, helper.Pagination{}, err
	}
	q := db.Model(&model.ZoneSiteModel{}).Where("zone_id = ?", zoneID)
	return helper.Paginate[model.ZoneSiteModel](q, lq, sortableAssignments, "createdAt")
}

func (s *ZoneService) AssignSite(ctx context.Context, zoneID uuid.UUID, req dto.AssignSiteRequest) (*model.ZoneSiteModel, error) {
	var m model.ZoneSiteModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := helper.EnsureExists(tx, &model.ZoneModel{}, zoneID, "zone"); err != nil {
			return err
		}
		m = req.ToModel(zoneID)
		if err := helper.EnsureExists(tx, &siteModel.SiteModel{}, m.SiteID, "site"); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *ZoneService) RemoveSite(ctx context.Context, zoneID, assignmentID uuid.UUID) error {
	db := s.db.WithContext(ctx)
	res := db.Where("id = ? AND zone_id = ?", assignmentID, zoneID).Delete(&model.ZoneSiteModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.NewNotFound("zone site assignment", assignmentID)
	}
	return nil
}
