package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	siteModel "cleanops_backend/internals/features/clients/site/model"
	contractModel "cleanops_backend/internals/features/contracts/contract/model"
	"cleanops_backend/internals/features/interventions/intervention/dto"
	"cleanops_backend/internals/features/interventions/intervention/model"
	scheduleModel "cleanops_backend/internals/features/schedules/schedule/model"
	userModel "cleanops_backend/internals/features/users/user/model"
	zoneModel "cleanops_backend/internals/features/zones/zone/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/geo"
	"cleanops_backend/internals/helpers/media"
)

var sortableInterventions = map[string]string{
	"createdAt":        "created_at",
	"scheduledDate":    "scheduled_date",
	"interventionCode": "intervention_code",
	"status":           "status",
}

// PhotoStore persists an uploaded photo and returns its public URL.
type PhotoStore interface {
	SavePhoto(folder string, data []byte, filename string) (string, error)
}

type InterventionService struct {
	db     *gorm.DB
	log    *zap.Logger
	photos PhotoStore
	now    func() time.Time
}

// NewInterventionService: photos may be nil, uploads then answer 503.
func NewInterventionService(db *gorm.DB, log *zap.Logger, photos PhotoStore) *InterventionService {
	return &InterventionService{db: db, log: log, photos: photos, now: func() time.Time { return time.Now().UTC() }}
}

func (s *InterventionService) filtered(ctx context.Context, lq helper.ListQuery, f dto.ListInterventionsQuery) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.InterventionModel{})
	q = helper.ApplySearch(q, lq, "intervention_code")
	for col, val := range map[string]string{
		"status":        f.Status,
		"contract_id":   f.ContractID,
		"site_id":       f.SiteID,
		"zone_id":       f.ZoneID,
		"schedule_id":   f.ScheduleID,
		"team_chief_id": f.TeamChiefID,
	} {
		if val != "" {
			q = q.Where(col+" = ?", val)
		}
	}
	if f.AgentID != "" {
		q = q.Where("id IN (?)", s.db.Model(&model.InterventionAgentModel{}).
			Select("intervention_id").Where("user_id = ?", f.AgentID))
	}
	if f.From != "" {
		q = q.Where("scheduled_date >= ?", helper.MustDate(f.From))
	}
	if f.To != "" {
		q = q.Where("scheduled_date <= ?", helper.MustDate(f.To))
	}
	return q
}

func (s *InterventionService) List(ctx context.Context, lq helper.ListQuery, f dto.ListInterventionsQuery) ([]model.InterventionModel, helper.Pagination, error) {
	rows, p, err := helper.Paginate[model.InterventionModel](s.filtered(ctx, lq, f), lq, sortableInterventions, "createdAt")
	if err != nil {
		return nil, p, err
	}
	if err := loadAgents(s.db.WithContext(ctx), rows); err != nil {
		return nil, p, err
	}
	return rows, p, nil
}

// loadAgents fills AgentIDs for every row with one query.
func loadAgents(tx *gorm.DB, rows []model.InterventionModel) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
		rows[i].AgentIDs = []uuid.UUID{}
	}
	var links []model.InterventionAgentModel
	if err := tx.Where("intervention_id IN ?", ids).Order("created_at").Find(&links).Error; err != nil {
		return fmt.Errorf("load intervention agents: %w", err)
	}
	idx := make(map[uuid.UUID]int, len(rows))
	for i := range rows {
		idx[rows[i].ID] = i
	}
	for _, l := range links {
		i := idx[l.InterventionID]
		rows[i].AgentIDs = append(rows[i].AgentIDs, l.UserID)
	}
	return nil
}

func (s *InterventionService) withAgents(tx *gorm.DB, m *model.InterventionModel) (*model.InterventionModel, error) {
	rows := []model.InterventionModel{*m}
	if err := loadAgents(tx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *InterventionService) Get(ctx context.Context, id uuid.UUID) (*model.InterventionModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindAny[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return nil, err
	}
	return s.withAgents(db, m)
}

func (s *InterventionService) reload(db *gorm.DB, id uuid.UUID) (*model.InterventionModel, error) {
	m, err := helper.FindLive[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return nil, err
	}
	return s.withAgents(db, m)
}

func ensureAgents(tx *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := helper.EnsureExists(tx, &userModel.UserModel{}, id, "user"); err != nil {
			return err
		}
	}
	return nil
}

func parseIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		out = append(out, helper.MustUUID(s))
	}
	return out
}

func (s *InterventionService) Create(ctx context.Context, req dto.CreateInterventionRequest) (*model.InterventionModel, error) {
	var m model.InterventionModel
	agents := parseIDs(req.AgentIDs)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m = req.ToModel()
		ctr, err := helper.FindLive[contractModel.ContractModel](tx, m.ContractID, "contract")
		if err != nil {
			return err
		}
		if contractModel.IsTerminal(ctr.Status) {
			return helper.NewConflict("contract %s is %s", ctr.ID, ctr.Status)
		}
		m.SiteID = ctr.SiteID
		if siteID := helper.ParseOptionalUUID(req.SiteID); siteID != nil && *siteID != ctr.SiteID {
			return helper.NewFieldError("siteId", "siteId must match the contract's site")
		}
		if m.ScheduleID != nil {
			sched, err := helper.FindLive[scheduleModel.ScheduleModel](tx, *m.ScheduleID, "schedule")
			if err != nil {
				return err
			}
			if sched.ContractID != ctr.ID {
				return helper.NewFieldError("scheduleId", "scheduleId must belong to the contract")
			}
		}
		if m.ZoneID != nil {
			if err := helper.EnsureExists(tx, &zoneModel.ZoneModel{}, *m.ZoneID, "zone"); err != nil {
				return err
			}
		}
		if m.TeamChiefID != nil {
			if err := helper.EnsureExists(tx, &userModel.UserModel{}, *m.TeamChiefID, "user"); err != nil {
				return err
			}
		}
		if err := ensureAgents(tx, agents); err != nil {
			return err
		}

		code, err := helper.NextCode(tx, helper.PrefixIntervention, s.now())
		if err != nil {
			return err
		}
		m.InterventionCode = code
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("create intervention: %w", err)
		}
		return replaceAgents(tx, m.ID, agents)
	})
	if err != nil {
		return nil, err
	}
	m.AgentIDs = agents
	return &m, nil
}

func replaceAgents(tx *gorm.DB, id uuid.UUID, agents []uuid.UUID) error {
	if err := tx.Where("intervention_id = ?", id).Delete(&model.InterventionAgentModel{}).Error; err != nil {
		return fmt.Errorf("clear intervention agents: %w", err)
	}
	if len(agents) == 0 {
		return nil
	}
	links := make([]model.InterventionAgentModel, 0, len(agents))
	for _, a := range agents {
		links = append(links, model.InterventionAgentModel{InterventionID: id, UserID: a})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("assign intervention agents: %w", err)
	}
	return nil
}

func (s *InterventionService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateInterventionRequest) (*model.InterventionModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return nil, err
	}

	up := req.BuildUpdateMap()
	if req.Status != nil && *req.Status != m.Status {
		switch *req.Status {
		case model.StatusCancelled:
			if !model.CanTransition(m.Status, model.StatusCancelled) {
				return nil, helper.NewInvalidTransition("intervention", m.Status, *req.Status)
			}
			up["status"] = model.StatusCancelled
		case model.StatusInProgress:
			return nil, helper.NewConflict("cannot transition intervention from %s to %s; use check-in", m.Status, *req.Status)
		case model.StatusCompleted:
			return nil, helper.NewConflict("cannot transition intervention from %s to %s; use check-out", m.Status, *req.Status)
		case model.StatusPostponed:
			return nil, helper.NewConflict("cannot transition intervention from %s to %s; use reschedule", m.Status, *req.Status)
		default:
			return nil, helper.NewInvalidTransition("intervention", m.Status, *req.Status)
		}
	}
	if len(up) == 0 {
		return s.withAgents(db, m)
	}
	if m.Status == model.StatusCancelled {
		return nil, helper.NewConflict("intervention %s is CANCELLED and can no longer be modified", id)
	}
	if (req.QualityScore != nil || req.ClientRating != nil) && m.Status != model.StatusCompleted {
		return nil, helper.NewConflict("qualityScore and clientRating can only be set on COMPLETED interventions")
	}
	if zoneID := helper.ParseOptionalUUID(req.ZoneID); zoneID != nil {
		if err := helper.EnsureExists(db, &zoneModel.ZoneModel{}, *zoneID, "zone"); err != nil {
			return nil, err
		}
	}
	if chiefID := helper.ParseOptionalUUID(req.TeamChiefID); chiefID != nil {
		if err := helper.EnsureExists(db, &userModel.UserModel{}, *chiefID, "user"); err != nil {
			return nil, err
		}
	}

	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("update intervention: %w", err)
	}
	return s.reload(db, id)
}

func (s *InterventionService) Delete(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return err
	}
	if m.Status == model.StatusInProgress {
		return helper.NewConflict("intervention %s is IN_PROGRESS and cannot be deleted", id)
	}
	return db.Delete(m).Error
}

func (s *InterventionService) SetAgents(ctx context.Context, id uuid.UUID, req dto.SetAgentsRequest) (*model.InterventionModel, error) {
	agents := parseIDs(req.AgentIDs)
	var out *model.InterventionModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := helper.FindLive[model.InterventionModel](tx, id, "intervention")
		if err != nil {
			return err
		}
		if model.IsTerminal(m.Status) {
			return helper.NewConflict("intervention %s is %s", id, m.Status)
		}
		if err := ensureAgents(tx, agents); err != nil {
			return err
		}
		if err := replaceAgents(tx, id, agents); err != nil {
			return err
		}
		out, err = s.withAgents(tx, m)
		return err
	})
	return out, err
}

/* ===============================
   Field operations
=================================*/

// CheckIn starts the visit. Distance and geofence flags are informational and never block.
func (s *InterventionService) CheckIn(ctx context.Context, id uuid.UUID, req dto.GPSRequest) (*model.InterventionModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusScheduled && m.Status != model.StatusPostponed {
		return nil, helper.NewInvalidTransition("intervention", m.Status, model.StatusInProgress)
	}

	up := map[string]any{
		"status":              model.StatusInProgress,
		"check_in_at":         s.now(),
		"check_in_latitude":   *req.Latitude,
		"check_in_longitude":  *req.Longitude,
		"check_in_accuracy":   req.Accuracy,
		"check_out_at":        nil,
		"check_out_latitude":  nil,
		"check_out_longitude": nil,
		"check_out_accuracy":  nil,
	}
	if req.Notes != nil {
		up["notes"] = *req.Notes
	}

	site, err := helper.FindAny[siteModel.SiteModel](db, m.SiteID, "site")
	if err != nil {
		return nil, err
	}
	at := geo.Point{Lat: *req.Latitude, Lng: *req.Longitude}
	if pos, ok := site.Position(); ok {
		up["check_in_distance_meters"] = geo.DistanceMeters(pos, at)
	}
	if len(site.Geofence) >= 3 {
		up["check_in_within_geofence"] = geo.InFence(site.Geofence, at)
	}

	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("check in: %w", err)
	}
	s.log.Info("intervention checked in", zap.String("intervention_id", id.String()))
	return s.reload(db, id)
}

func (s *InterventionService) CheckOut(ctx context.Context, id uuid.UUID, req dto.GPSRequest) (*model.InterventionModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return nil, err
	}
	if m.Status != model.StatusInProgress || m.CheckInAt == nil {
		return nil, helper.NewConflict("intervention %s has no recorded check-in", id)
	}

	now := s.now()
	minutes := int(now.Sub(*m.CheckInAt).Round(time.Minute) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	up := map[string]any{
		"status":                  model.StatusCompleted,
		"check_out_at":            now,
		"check_out_latitude":      *req.Latitude,
		"check_out_longitude":     *req.Longitude,
		"check_out_accuracy":      req.Accuracy,
		"actual_duration_minutes": minutes,
	}
	if req.Notes != nil {
		up["notes"] = *req.Notes
	}
	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("check out: %w", err)
	}
	s.log.Info("intervention checked out",
		zap.String("intervention_id", id.String()),
		zap.Int("duration_minutes", minutes),
	)
	return s.reload(db, id)
}

// Reschedule moves the visit to a new date and resets any partial check-in.
func (s *InterventionService) Reschedule(ctx context.Context, id uuid.UUID, req dto.RescheduleRequest) (*model.InterventionModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(m.Status, model.StatusPostponed) {
		return nil, helper.NewInvalidTransition("intervention", m.Status, model.StatusPostponed)
	}

	up := map[string]any{
		"status":                   model.StatusPostponed,
		"scheduled_date":           helper.MustDate(req.NewDate),
		"scheduled_start_time":     req.NewStartTime,
		"scheduled_end_time":       req.NewEndTime,
		"postpone_reason":          req.Reason,
		"check_in_at":              nil,
		"check_in_latitude":        nil,
		"check_in_longitude":       nil,
		"check_in_accuracy":        nil,
		"check_in_distance_meters": nil,
		"check_in_within_geofence": nil,
	}
	if m.PostponedFromDate == nil {
		up["postponed_from_date"] = m.ScheduledDate
	}
	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("reschedule: %w", err)
	}
	return s.reload(db, id)
}

func (s *InterventionService) Cancel(ctx context.Context, id uuid.UUID, req dto.CancelRequest) (*model.InterventionModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(m.Status, model.StatusCancelled) {
		return nil, helper.NewInvalidTransition("intervention", m.Status, model.StatusCancelled)
	}
	up := map[string]any{"status": model.StatusCancelled}
	if req.Reason != nil {
		up["cancellation_reason"] = *req.Reason
	}
	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("cancel: %w", err)
	}
	return s.reload(db, id)
}

// AddPhoto converts the upload to WebP, stores it and appends its URL.
func (s *InterventionService) AddPhoto(ctx context.Context, id uuid.UUID, data []byte, filename string) (*model.InterventionModel, error) {
	if s.photos == nil {
		return nil, &helper.AppError{Status: fiber.StatusServiceUnavailable, Message: "photo storage is not configured"}
	}
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.InterventionModel](db, id, "intervention")
	if err != nil {
		return nil, err
	}
	if m.Status == model.StatusCancelled {
		return nil, helper.NewConflict("intervention %s is CANCELLED", id)
	}

	url, err := s.photos.SavePhoto("interventions/"+id.String(), data, filename)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			return nil, helper.NewFieldError("photo", err.Error())
		}
		return nil, fmt.Errorf("store photo: %w", err)
	}

	photos := append([]string{}, m.PhotoURLs...)
	photos = append(photos, url)
	if err := db.Model(m).Update("photo_urls", datatypes.JSONSlice[string](photos)).Error; err != nil {
		return nil, fmt.Errorf("append photo: %w", err)
	}
	return s.reload(db, id)
}
