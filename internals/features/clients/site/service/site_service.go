package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	clientModel "cleanops_backend/internals/features/clients/client/model"
	"cleanops_backend/internals/features/clients/site/dto"
	"cleanops_backend/internals/features/clients/site/model"
	contractModel "cleanops_backend/internals/features/contracts/contract/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/geo"
)

var sortableSites = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"city":      "city",
}

type SiteService struct {
	db       *gorm.DB
	log      *zap.Logger
	geocoder Geocoder
}

// NewSiteService accepts a nil geocoder; geocoding is then skipped.
func NewSiteService(db *gorm.DB, log *zap.Logger, geocoder Geocoder) *SiteService {
	return &SiteService{db: db, log: log, geocoder: geocoder}
}

func (s *SiteService) List(ctx context.Context, lq helper.ListQuery, f dto.ListSitesQuery) ([]model.SiteModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.SiteModel{})
	q = helper.ApplySearch(q, lq, "name", "address", "city")
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.IsActive != "" {
		q = q.Where("is_active = ?", f.IsActive == "true")
	}
	return helper.Paginate[model.SiteModel](q, lq, sortableSites, "createdAt")
}

func (s *SiteService) Get(ctx context.Context, id uuid.UUID) (*model.SiteModel, error) {
	return helper.FindAny[model.SiteModel](s.db.WithContext(ctx), id, "site")
}

func fenceError(points []model.GeoPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := geo.ValidateFence(points); err != nil {
		return helper.NewFieldError("geofence", err.Error())
	}
	return nil
}

func (s *SiteService) Create(ctx context.Context, req dto.CreateSiteRequest) (*model.SiteModel, error) {
	db := s.db.WithContext(ctx)
	m := req.ToModel()
	if err := helper.EnsureExists(db, &clientModel.ClientModel{}, m.ClientID, "client"); err != nil {
		return nil, err
	}
	if err := fenceError(req.Geofence); err != nil {
		return nil, err
	}
	if !m.HasCoordinates() && s.geocoder != nil {
		// best effort: a site without coordinates is still valid
		if p, err := s.geocoder.Geocode(ctx, fullAddress(&m)); err != nil {
			s.log.Warn("geocoding failed on site create", zap.String("address", m.Address), zap.Error(err))
		} else {
			m.Latitude, m.Longitude = &p.Lat, &p.Lng
		}
	}
	if err := db.Create(&m).Error; err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	return &m, nil
}

func (s *SiteService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSiteRequest) (*model.SiteModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.SiteModel](db, id, "site")
	if err != nil {
		return nil, err
	}
	if req.Geofence != nil {
		if err := fenceError(*req.Geofence); err != nil {
			return nil, err
		}
	}
	up := req.BuildUpdateMap()
	if len(up) == 0 {
		return m, nil
	}
	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("update site: %w", err)
	}
	return helper.FindLive[model.SiteModel](db, id, "site")
}

// Delete is refused while a DRAFT, ACTIVE or PAUSED contract points at the site.
func (s *SiteService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := helper.FindLive[model.SiteModel](tx, id, "site")
		if err != nil {
			return err
		}
		var open int64
		if err := tx.Model(&contractModel.ContractModel{}).
			Where("site_id = ? AND status IN ?", id, contractModel.OpenStatuses).
			Count(&open).Error; err != nil {
			return fmt.Errorf("count contracts: %w", err)
		}
		if open > 0 {
			return helper.NewConflict("site %s is referenced by %d open contract(s)", id, open)
		}
		return tx.Delete(m).Error
	})
}

// Geocode resolves the stored address and overwrites the coordinates.
func (s *SiteService) Geocode(ctx context.Context, id uuid.UUID) (*model.SiteModel, error) {
	if s.geocoder == nil {
		return nil, &helper.AppError{Status: fiber.StatusServiceUnavailable, Message: "geocoding is not configured"}
	}
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.SiteModel](db, id, "site")
	if err != nil {
		return nil, err
	}
	p, err := s.geocoder.Geocode(ctx, fullAddress(m))
	if err != nil {
		if errors.Is(err, ErrNoGeocodeMatch) {
			return nil, helper.NewBadRequest("address of site %s could not be geocoded", id)
		}
		return nil, &helper.AppError{Status: fiber.StatusBadGateway, Message: "geocoding failed", Err: err}
	}
	if err := db.Model(m).Updates(map[string]any{"latitude": p.Lat, "longitude": p.Lng}).Error; err != nil {
		return nil, fmt.Errorf("store coordinates: %w", err)
	}
	return helper.FindLive[model.SiteModel](db, id, "site")
}

func fullAddress(m *model.SiteModel) string {
	parts := []string{m.Address}
	for _, p := range []*string{m.PostalCode, m.City, m.Country} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, ", ")
}
