package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/absences/absence/dto"
	"cleanops_backend/internals/features/absences/absence/model"
	userModel "cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/dbtime"
)

var sortableAbsences = map[string]string{
	"createdAt": "created_at",
	"startDate": "start_date",
	"endDate":   "end_date",
}

type AbsenceService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAbsenceService(db *gorm.DB, log *zap.Logger) *AbsenceService {
	return &AbsenceService{db: db, log: log}
}

func (s *AbsenceService) List(ctx context.Context, lq helper.ListQuery, f dto.ListAbsencesQuery) ([]model.AbsenceModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.AbsenceModel{})
	if f.AgentID != "" {
		q = q.Where("agent_id = ?", f.AgentID)
	}
	if f.Type != "" {
		q = q.Where("absence_type = ?", f.Type)
	}
	if f.From != "" {
		q = q.Where("end_date >= ?", helper.MustDate(f.From))
	}
	if f.To != "" {
		q = q.Where("start_date <= ?", helper.MustDate(f.To))
	}
	return helper.Paginate[model.AbsenceModel](q, lq, sortableAbsences, "createdAt")
}

func (s *AbsenceService) Get(ctx context.Context, id uuid.UUID) (*model.AbsenceModel, error) {
	return helper.FindAny[model.AbsenceModel](s.db.WithContext(ctx), id, "absence")
}

// ensureNoOverlap rejects a period that intersects another live absence of the agent (inclusive bounds).
func ensureNoOverlap(tx *gorm.DB, agentID uuid.UUID, start, end dbtime.Date, except *uuid.UUID) error {
	q := tx.Model(&model.AbsenceModel{}).
		Where("agent_id = ? AND start_date <= ? AND end_date >= ?", agentID, end, start)
	if except != nil {
		q = q.Where("id <> ?", *except)
	}
	var clash model.AbsenceModel
	err := q.Order("start_date").Limit(1).Find(&clash).Error
	if err != nil {
		return fmt.Errorf("check absence overlap: %w", err)
	}
	if clash.ID != uuid.Nil {
		return helper.NewConflict("agent already has an absence from %s to %s", clash.StartDate, clash.EndDate)
	}
	return nil
}

func (s *AbsenceService) Create(ctx context.Context, req dto.CreateAbsenceRequest) (*model.AbsenceModel, error) {
	m := req.ToModel()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := helper.EnsureExists(tx, &userModel.UserModel{}, m.AgentID, "user"); err != nil {
			return err
		}
		if err := ensureNoOverlap(tx, m.AgentID, m.StartDate, m.EndDate, nil); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *AbsenceService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateAbsenceRequest) (*model.AbsenceModel, error) {
	var out *model.AbsenceModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := helper.FindLive[model.AbsenceModel](tx, id, "absence")
		if err != nil {
			return err
		}
		up := req.BuildUpdateMap()
		if len(up) == 0 {
			out = m
			return nil
		}

		start, end := m.StartDate, m.EndDate
		if req.StartDate != nil {
			start = helper.MustDate(*req.StartDate)
		}
		if req.EndDate != nil {
			end = helper.MustDate(*req.EndDate)
		}
		if end.Before(start) {
			return helper.NewFieldError("endDate", "endDate must be on or after startDate")
		}
		if err := ensureNoOverlap(tx, m.AgentID, start, end, &m.ID); err != nil {
			return err
		}
		if err := tx.Model(m).Updates(up).Error; err != nil {
			return fmt.Errorf("update absence: %w", err)
		}
		out, err = helper.FindLive[model.AbsenceModel](tx, id, "absence")
		return err
	})
	return out, err
}

func (s *AbsenceService) Delete(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.AbsenceModel](db, id, "absence")
	if err != nil {
		return err
	}
	return db.Delete(m).Error
}
