package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/clients/client/dto"
	"cleanops_backend/internals/features/clients/client/model"
	siteModel "cleanops_backend/internals/features/clients/site/model"
	contractModel "cleanops_backend/internals/features/contracts/contract/model"
	helper "cleanops_backend/internals/helpers"
)

var sortableClients = map[string]string{
	"createdAt":  "created_at",
	"name":       "name",
	"clientCode": "client_code",
	"status":     "status",
}

var sortableChildren = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
}

type ClientService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewClientService(db *gorm.DB, log *zap.Logger) *ClientService {
	return &ClientService{db: db, log: log}
}

func (s *ClientService) List(ctx context.Context, lq helper.ListQuery, f dto.ListClientsQuery) ([]model.ClientModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.ClientModel{})
	q = helper.ApplySearch(q, lq, "name", "client_code", "email")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	return helper.Paginate[model.ClientModel](q, lq, sortableClients, "createdAt")
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*model.ClientModel, error) {
	return helper.FindAny[model.ClientModel](s.db.WithContext(ctx), id, "client")
}

func (s *ClientService) Create(ctx context.Context, req dto.CreateClientRequest) (*model.ClientModel, error) {
	var m model.ClientModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := helper.NextCode(tx, helper.PrefixClient, time.Now())
		if err != nil {
			return err
		}
		m = req.ToModel(code)
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("client created", zap.String("client_id", m.ID.String()), zap.String("code", m.ClientCode))
	return &m, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*model.ClientModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.ClientModel](db, id, "client")
	if err != nil {
		return nil, err
	}
	up := req.BuildUpdateMap()
	if len(up) == 0 {
		return m, nil
	}
	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return helper.FindLive[model.ClientModel](db, id, "client")
}

// Delete soft-deletes the client and its sites. Refused while a contract is still open.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := helper.FindLive[model.ClientModel](tx, id, "client")
		if err != nil {
			return err
		}
		var open int64
		if err := tx.Model(&contractModel.ContractModel{}).
			Where("client_id = ? AND status IN ?", id, contractModel.OpenStatuses).
			Count(&open).Error; err != nil {
			return fmt.Errorf("count contracts: %w", err)
		}
		if open > 0 {
			return helper.NewConflict("client %s has %d open contract(s)", id, open)
		}
		if err := tx.Where("client_id = ?", id).Delete(&siteModel.SiteModel{}).Error; err != nil {
			return fmt.Errorf("delete client sites: %w", err)
		}
		if err := tx.Delete(m).Error; err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		s.log.Info("client deleted", zap.String("client_id", id.String()))
		return nil
	})
}

// Sites lists the live sites of a client; the client itself may be a tombstone.
func (s *ClientService) Sites(ctx context.Context, id uuid.UUID, lq helper.ListQuery) ([]siteModel.SiteModel, helper.Pagination, error) {
	db := s.db.WithContext(ctx)
	if _, err := helper.FindAny[model.ClientModel](db, id, "client"); err != nil {
		return nil, helper.Pagination{}, err
	}
	q := db.Model(&siteModel.SiteModel{}).Where("client_id = ?", id)
	q = helper.ApplySearch(q, lq, "name", "address", "city")
	return helper.Paginate[siteModel.SiteModel](q, lq, sortableChildren, "createdAt")
}

func (s *ClientService) Contracts(ctx context.Context, id uuid.UUID, lq helper.ListQuery) ([]contractModel.ContractModel, helper.Pagination, error) {
	db := s.db.WithContext(ctx)
	if _, err := helper.FindAny[model.ClientModel](db, id, "client"); err != nil {
		return nil, helper.Pagination{}, err
	}
	q := db.Model(&contractModel.ContractModel{}).Where("client_id = ?", id)
	q = helper.ApplySearch(q, lq, "contract_code")
	return helper.Paginate[contractModel.ContractModel](q, lq, map[string]string{
		"createdAt": "created_at",
		"startDate": "start_date",
		"status":    "status",
	}, "createdAt")
}
