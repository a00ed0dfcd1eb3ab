package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	contractModel "cleanops_backend/internals/features/contracts/contract/model"
	interventionModel "cleanops_backend/internals/features/interventions/intervention/model"
	"cleanops_backend/internals/features/schedules/schedule/dto"
	"cleanops_backend/internals/features/schedules/schedule/model"
	userModel "cleanops_backend/internals/features/users/user/model"
	zoneModel "cleanops_backend/internals/features/zones/zone/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/dbtime"
)

var sortableSchedules = map[string]string{
	"createdAt": "created_at",
	"validFrom": "valid_from",
	"startTime": "start_time",
	"status":    "status",
}

type Options struct {
	Location  *time.Location
	DaysAhead int
	Now       func() time.Time
}

type ScheduleService struct {
	db   *gorm.DB
	log  *zap.Logger
	opts Options
}

func NewScheduleService(db *gorm.DB, log *zap.Logger, opts Options) *ScheduleService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DaysAhead <= 0 {
		opts.DaysAhead = 30
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ScheduleService{db: db, log: log, opts: opts}
}

func (s *ScheduleService) today() dbtime.Date {
	return dbtime.DateOf(s.opts.Now().In(s.opts.Location))
}

func (s *ScheduleService) List(ctx context.Context, lq helper.ListQuery, f dto.ListSchedulesQuery) ([]model.ScheduleModel, helper.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&model.ScheduleModel{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ContractID != "" {
		q = q.Where("contract_id = ?", f.ContractID)
	}
	if f.SiteID != "" {
		q = q.Where("site_id = ?", f.SiteID)
	}
	if f.ZoneID != "" {
		q = q.Where("zone_id = ?", f.ZoneID)
	}
	if f.RecurrencePattern != "" {
		q = q.Where("recurrence_pattern = ?", f.RecurrencePattern)
	}
	return helper.Paginate[model.ScheduleModel](q, lq, sortableSchedules, "createdAt")
}

func (s *ScheduleService) Get(ctx context.Context, id uuid.UUID) (*model.ScheduleModel, error) {
	return helper.FindAny[model.ScheduleModel](s.db.WithContext(ctx), id, "schedule")
}

func ensureRefs(tx *gorm.DB, zoneID, chiefID *uuid.UUID) error {
	if zoneID != nil {
		if err := helper.EnsureExists(tx, &zoneModel.ZoneModel{}, *zoneID, "zone"); err != nil {
			return err
		}
	}
	if chiefID != nil {
		if err := helper.EnsureExists(tx, &userModel.UserModel{}, *chiefID, "user"); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*model.ScheduleModel, error) {
	var m model.ScheduleModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m = req.ToModel()
		ctr, err := helper.FindLive[contractModel.ContractModel](tx, m.ContractID, "contract")
		if err != nil {
			return err
		}
		if contractModel.IsTerminal(ctr.Status) {
			return helper.NewConflict("contract %s is %s", ctr.ID, ctr.Status)
		}
		if ctr.SiteID != m.SiteID {
			return helper.NewFieldError("siteId", "siteId must match the contract's site")
		}
		if err := ensureRefs(tx, m.ZoneID, m.TeamChiefID); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateScheduleRequest) (*model.ScheduleModel, error) {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.ScheduleModel](db, id, "schedule")
	if err != nil {
		return nil, err
	}

	up := req.BuildUpdateMap()
	if req.Status != nil && *req.Status != m.Status {
		if !model.CanTransition(m.Status, *req.Status) {
			return nil, helper.NewInvalidTransition("schedule", m.Status, *req.Status)
		}
		up["status"] = *req.Status
	}
	if len(up) == 0 {
		return m, nil
	}
	if m.Status == model.StatusCompleted {
		return nil, helper.NewConflict("schedule %s is COMPLETED and can no longer be modified", id)
	}
	if err := checkWindow(m, req); err != nil {
		return nil, err
	}
	if err := ensureRefs(db, helper.ParseOptionalUUID(req.ZoneID), helper.ParseOptionalUUID(req.TeamChiefID)); err != nil {
		return nil, err
	}

	if err := db.Model(m).Updates(up).Error; err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	return helper.FindLive[model.ScheduleModel](db, id, "schedule")
}

// checkWindow re-checks the time and date ordering against the stored values.
func checkWindow(m *model.ScheduleModel, req dto.UpdateScheduleRequest) error {
	start, end := m.StartTime, m.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	a, _ := dbtime.ParseHHMM(start)
	b, _ := dbtime.ParseHHMM(end)
	if b <= a {
		return helper.NewFieldError("endTime", "endTime must be after startTime")
	}

	from, until := m.ValidFrom, m.ValidUntil
	if req.ValidFrom != nil {
		from = helper.MustDate(*req.ValidFrom)
	}
	if req.ValidUntil != nil {
		until = helper.OptionalDate(req.ValidUntil)
	}
	if until != nil && until.Before(from) {
		return helper.NewFieldError("validUntil", "validUntil must be on or after validFrom")
	}
	return nil
}

func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	m, err := helper.FindLive[model.ScheduleModel](db, id, "schedule")
	if err != nil {
		return err
	}
	return db.Delete(m).Error
}

/* ===============================
   Generation
=================================*/

// Generate creates SCHEDULED interventions for every occurrence in the requested window.
// Dates that already carry an intervention of this schedule are skipped.
func (s *ScheduleService) Generate(ctx context.Context, id uuid.UUID, req dto.GenerateRequest) (*dto.GenerateResult, error) {
	var res dto.GenerateResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sched, err := helper.FindLive[model.ScheduleModel](tx, id, "schedule")
		if err != nil {
			return err
		}
		if sched.Status != model.StatusActive {
			return helper.NewConflict("schedule %s is %s; only ACTIVE schedules generate interventions", id, sched.Status)
		}
		ctr, err := helper.FindLive[contractModel.ContractModel](tx, sched.ContractID, "contract")
		if err != nil {
			return err
		}
		if ctr.Status != contractModel.StatusActive {
			return helper.NewConflict("contract %s is %s; only ACTIVE contracts generate interventions", ctr.ID, ctr.Status)
		}

		from, to := s.window(sched, ctr, req)
		res = dto.GenerateResult{ScheduleID: id.String(), From: from, To: to, Dates: []string{}}
		if to.Before(from) {
			return nil
		}

		var existing []dbtime.Date
		if err := tx.Model(&interventionModel.InterventionModel{}).
			Where("schedule_id = ? AND scheduled_date >= ? AND scheduled_date <= ?", id, from, to).
			Pluck("scheduled_date", &existing).Error; err != nil {
			return fmt.Errorf("load existing interventions: %w", err)
		}
		taken := make(map[string]bool, len(existing))
		for _, d := range existing {
			taken[d.String()] = true
		}

		now := s.opts.Now()
		for _, day := range Occurrences(sched.RecurrencePattern, sched.ValidFrom, from, to) {
			if taken[day.String()] {
				res.Skipped++
				continue
			}
			code, err := helper.NextCode(tx, helper.PrefixIntervention, now)
			if err != nil {
				return err
			}
			iv := interventionModel.InterventionModel{
				InterventionCode:   code,
				ContractID:         sched.ContractID,
				SiteID:             sched.SiteID,
				ScheduleID:         &sched.ID,
				ZoneID:             sched.ZoneID,
				TeamChiefID:        sched.TeamChiefID,
				ScheduledDate:      day,
				ScheduledStartTime: sched.StartTime,
				ScheduledEndTime:   sched.EndTime,
				Status:             interventionModel.StatusScheduled,
			}
			if err := tx.Create(&iv).Error; err != nil {
				return fmt.Errorf("create intervention: %w", err)
			}
			res.Created++
			res.Dates = append(res.Dates, day.String())
		}

		if sched.LastGeneratedUntil == nil || to.After(*sched.LastGeneratedUntil) {
			if err := tx.Model(sched).Update("last_generated_until", to).Error; err != nil {
				return fmt.Errorf("advance last_generated_until: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("interventions generated",
		zap.String("schedule_id", id.String()),
		zap.String("from", res.From.String()),
		zap.String("to", res.To.String()),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
	)
	return &res, nil
}

// window clamps the requested range to the schedule and contract validity.
func (s *ScheduleService) window(sched *model.ScheduleModel, ctr *contractModel.ContractModel, req dto.GenerateRequest) (dbtime.Date, dbtime.Date) {
	from := s.today()
	if req.StartDate != nil {
		from = helper.MustDate(*req.StartDate)
	}
	for _, lower := range []dbtime.Date{sched.ValidFrom, ctr.StartDate} {
		if from.Before(lower) {
			from = lower
		}
	}

	days := s.opts.DaysAhead
	if req.DaysAhead != nil {
		days = *req.DaysAhead
	}
	to := from.AddDays(days - 1)
	if req.EndDate != nil {
		to = helper.MustDate(*req.EndDate)
	}
	for _, upper := range []*dbtime.Date{sched.ValidUntil, ctr.EndDate} {
		if upper != nil && to.After(*upper) {
			to = *upper
		}
	}
	return from, to
}

// GenerateAll runs Generate over every ACTIVE schedule; schedules whose contract is not ACTIVE are skipped.
func (s *ScheduleService) GenerateAll(ctx context.Context, daysAhead int) (schedules, created int, err error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&model.ScheduleModel{}).
		Where("status = ?", model.StatusActive).
		Pluck("id", &ids).Error; err != nil {
		return 0, 0, err
	}
	req := dto.GenerateRequest{DaysAhead: &daysAhead}
	for _, id := range ids {
		res, err := s.Generate(ctx, id, req)
		if err != nil {
			if helper.StatusOf(err) == 409 {
				continue
			}
			return schedules, created, err
		}
		schedules++
		created += res.Created
	}
	return schedules, created, nil
}

// CompleteExpired closes ACTIVE and PAUSED schedules whose validUntil is before today.
func (s *ScheduleService) CompleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.ScheduleModel{}).
		Where("status IN ? AND valid_until IS NOT NULL AND valid_until < ?",
			[]string{model.StatusActive, model.StatusPaused}, s.today()).
		Update("status", model.StatusCompleted)
	return res.RowsAffected, res.Error
}
