package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	clientModel "cleanops_backend/internals/features/clients/client/model"
	siteModel "cleanops_backend/internals/features/clients/site/model"
	"cleanops_backend/internals/features/contracts/contract/dto"
	"cleanops_backend/internals/features/contracts/contract/model"
	helper "cleanops_backend/internals/helpers"
)

var sortableContracts = map[string]string{
	"createdAt":    "created_at",
	"contractCode": "contract_code",
	"startDate":    "start_date",
	"status":       "status",
}

type ContractService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewContractService(db *gorm.DB, log *zap.Logger) *ContractService {
	return &ContractService{db: db, log: log}
}

func (s *ContractService) List(ctx context.Context, lq helper.ListQuery, f dto.ListContractsQuery) ([]model.ContractModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.ContractModel{})
	q = helper.ApplySearch(q, lq, "contract_code")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.SiteID != "" {
		q = q.Where("site_id = ?", f.SiteID)
	}
	return helper.Paginate[model.ContractModel](q, lq, sortableContracts, "createdAt")
}

func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*model.ContractModel, error) {
	return helper.FindAny[model.ContractModel](s.db.WithContext(ctx), id, "contract")
}

// Create always stores a DRAFT; the site must belong to the client.
func (s *ContractService) Create(ctx context.Context, req dto.CreateContractRequest) (*model.ContractModel, error) {
	var m model.ContractModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		clientID, siteID := uuid.MustParse(req.ClientID), uuid.MustParse(req.SiteID)
		if err := helper.EnsureExists(tx, &clientModel.ClientModel{}, clientID, "client"); err != nil {
			return err
		}
		site, err := helper.FindLive[siteModel.SiteModel](tx, siteID, "site")
		if err != nil {
			return err
		}
		if site.ClientID != clientID {
			return helper.NewFieldError("siteId", fmt.Sprintf("site %s does not belong to client %s", siteID, clientID))
		}

		code, err := helper.NextCode(tx, helper.PrefixContract, time.Now())
		if err != nil {
			return err
		}
		m = req.ToModel(code)
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("create contract: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("contract created", zap.String("contract_id", m.ID.String()), zap.String("code", m.ContractCode))
	return &m, nil
}

func (s *ContractService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateContractRequest) (*model.ContractModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.ContractModel](db, id, "contract")
	if err != nil {
		return nil, err
	}

	up := req.BuildUpdateMap()
	if req.Status != nil && *req.Status != m.Status {
		if !model.CanTransition(m.Status, *req.Status) {
			return nil, helper.NewInvalidTransition("contract", m.Status, *req.Status)
		}
		up["status"] = *req.Status
	}
	if len(up) == 0 {
		return m, nil
	}
	if model.IsTerminal(m.Status) {
		return nil, helper.NewConflict("contract %s is %s and can no longer be modified", id, m.Status)
	}
	if err := checkDates(m, req); err != nil {
		return nil, err
	}

	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("update contract: %w", err)
	}
	if to, ok := up["status"]; ok {
		s.log.Info("contract status changed", zap.String("contract_id", id.String()), zap.String("from", m.Status), zap.Any("to", to))
	}
	return helper.FindLive[model.ContractModel](db, id, "contract")
}

// checkDates validates the resulting date range against the stored values.
func checkDates(m *model.ContractModel, req dto.UpdateContractRequest) error {
	start := m.StartDate
	if req.StartDate != nil {
		start = helper.MustDate(*req.StartDate)
	}
	end := m.EndDate
	if req.EndDate != nil {
		end = helper.OptionalDate(req.EndDate)
	}
	if end != nil && end.Before(start) {
		return helper.NewFieldError("endDate", "endDate must be on or after startDate")
	}
	return nil
}

// Delete accepts DRAFT, COMPLETED and CANCELLED contracts only.
func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.ContractModel](db, id, "contract")
	if err != nil {
		return err
	}
	if m.Status == model.StatusActive || m.Status == model.StatusPaused {
		return helper.NewConflict("contract %s is %s; cancel or complete it before deleting", id, m.Status)
	}
	return db.Delete(m).Error
}
