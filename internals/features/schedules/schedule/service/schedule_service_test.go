package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	clientModel "cleanops_backend/internals/features/clients/client/model"
	siteModel "cleanops_backend/internals/features/clients/site/model"
	contractModel "cleanops_backend/internals/features/contracts/contract/model"
	interventionModel "cleanops_backend/internals/features/interventions/intervention/model"
	"cleanops_backend/internals/features/schedules/schedule/dto"
	"cleanops_backend/internals/features/schedules/schedule/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/testsupport"
)

type fixture struct {
	db       *gorm.DB
	svc      *ScheduleService
	contract contractModel.ContractModel
}

// fixed clock: Monday 2025-01-06 10:00 UTC
var monday = time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

func setup(t *testing.T, contractStatus string) fixture {
	db := testsupport.NewDB(t)
	c := clientModel.ClientModel{ClientCode: "CLI-T-1", Name: "Acme", Type: "COMPANY", Status: "ACTIVE"}
	require.NoError(t, db.Create(&c).Error)
	s := siteModel.SiteModel{ClientID: c.ID, Name: "HQ", Address: "1 Main", IsActive: true}
	require.NoError(t, db.Create(&s).Error)
	ctr := contractModel.ContractModel{
		ContractCode: "CTR-T-1", ClientID: c.ID, SiteID: s.ID, Type: "PERMANENT", Frequency: "WEEKLY",
		StartDate: d("2025-01-01"), Status: contractStatus,
		Pricing:      datatypes.NewJSONType(contractModel.PricingModel{Model: "FIXED_MONTHLY", BasePrice: 1, Currency: "EUR", BillingCycle: "MONTHLY"}),
		ServiceScope: datatypes.NewJSONType(contractModel.ServiceScope{Tasks: []string{"floors"}}),
	}
	require.NoError(t, db.Create(&ctr).Error)

	svc := NewScheduleService(db, testsupport.Logger(), Options{DaysAhead: 30, Now: func() time.Time { return monday }})
	return fixture{db: db, svc: svc, contract: ctr}
}

func (f fixture) create(t *testing.T, pattern, validFrom string) *model.ScheduleModel {
	m, err := f.svc.Create(context.Background(), dto.CreateScheduleRequest{
		ContractID:        f.contract.ID.String(),
		SiteID:            f.contract.SiteID.String(),
		RecurrencePattern: pattern,
		StartTime:         "08:00",
		EndTime:           "10:30",
		ValidFrom:         validFrom,
	})
	require.NoError(t, err)
	return m
}

func TestCreateValidatesSiteAndContract(t *testing.T) {
	f := setup(t, contractModel.StatusActive)
	_, err := f.svc.Create(context.Background(), dto.CreateScheduleRequest{
		ContractID: f.contract.ID.String(), SiteID: uuid.NewString(),
		RecurrencePattern: "DAILY", StartTime: "08:00", EndTime: "09:00", ValidFrom: "2025-01-01",
	})
	assert.Equal(t, 400, helper.StatusOf(err))

	_, err = f.svc.Create(context.Background(), dto.CreateScheduleRequest{
		ContractID: uuid.NewString(), SiteID: f.contract.SiteID.String(),
		RecurrencePattern: "DAILY", StartTime: "08:00", EndTime: "09:00", ValidFrom: "2025-01-01",
	})
	assert.Equal(t, 404, helper.StatusOf(err))
}

func TestGenerateWeeklyIsIdempotent(t *testing.T) {
	f := setup(t, contractModel.StatusActive)
	ctx := context.Background()
	sched := f.create(t, model.PatternWeekly, "2025-01-08") // a Wednesday

	res, err := f.svc.Generate(ctx, sched.ID, dto.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-08", res.From.String())
	assert.Equal(t, "2025-02-06", res.To.String())
	assert.Equal(t, []string{"2025-01-08", "2025-01-15", "2025-01-22", "2025-01-29", "2025-02-05"}, res.Dates)
	assert.Equal(t, 5, res.Created)

	var ivs []interventionModel.InterventionModel
	require.NoError(t, f.db.Order("scheduled_date").Find(&ivs).Error)
	require.Len(t, ivs, 5)
	assert.Equal(t, "08:00", ivs[0].ScheduledStartTime)
	assert.Equal(t, interventionModel.StatusScheduled, ivs[0].Status)
	assert.Regexp(t, `^INT-2025-00000[1-5]$`, ivs[0].InterventionCode)

	again, err := f.svc.Generate(ctx, sched.ID, dto.GenerateRequest{})
	require.NoError(t, err)
	assert.Zero(t, again.Created)
	assert.Equal(t, 5, again.Skipped)

	got, err := f.svc.Get(ctx, sched.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastGeneratedUntil)
	assert.Equal(t, "2025-02-06", got.LastGeneratedUntil.String())
}

func TestGenerateMonthlyExplicitWindow(t *testing.T) {
	f := setup(t, contractModel.StatusActive)
	sched := f.create(t, model.PatternMonthly, "2025-01-31")

	start, end := "2025-01-01", "2025-04-30"
	res, err := f.svc.Generate(context.Background(), sched.ID, dto.GenerateRequest{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-31", "2025-02-28", "2025-03-31", "2025-04-30"}, res.Dates)
}

func TestGenerateRequiresActiveScheduleAndContract(t *testing.T) {
	f := setup(t, contractModel.StatusDraft)
	sched := f.create(t, model.PatternDaily, "2025-01-01")
	_, err := f.svc.Generate(context.Background(), sched.ID, dto.GenerateRequest{})
	assert.Equal(t, 409, helper.StatusOf(err))

	require.NoError(t, f.db.Model(&f.contract).Update("status", contractModel.StatusActive).Error)
	paused := model.StatusPaused
	_, err = f.svc.Update(context.Background(), sched.ID, dto.UpdateScheduleRequest{Status: &paused})
	require.NoError(t, err)
	_, err = f.svc.Generate(context.Background(), sched.ID, dto.GenerateRequest{})
	assert.Equal(t, 409, helper.StatusOf(err))
}

func TestScheduleTransitions(t *testing.T) {
	f := setup(t, contractModel.StatusActive)
	ctx := context.Background()
	sched := f.create(t, model.PatternDaily, "2025-01-01")

	completed := model.StatusCompleted
	_, err := f.svc.Update(ctx, sched.ID, dto.UpdateScheduleRequest{Status: &completed})
	require.NoError(t, err)

	active := model.StatusActive
	_, err = f.svc.Update(ctx, sched.ID, dto.UpdateScheduleRequest{Status: &active})
	assert.Equal(t, 409, helper.StatusOf(err))
}

func TestUpdateRejectsInvertedTimes(t *testing.T) {
	f := setup(t, contractModel.StatusActive)
	sched := f.create(t, model.PatternDaily, "2025-01-01")
	early := "07:00"
	_, err := f.svc.Update(context.Background(), sched.ID, dto.UpdateScheduleRequest{EndTime: &early})
	assert.Equal(t, 400, helper.StatusOf(err))
}

func TestCompleteExpired(t *testing.T) {
	f := setup(t, contractModel.StatusActive)
	ctx := context.Background()

	until := "2025-01-05"
	old, err := f.svc.Create(ctx, dto.CreateScheduleRequest{
		ContractID: f.contract.ID.String(), SiteID: f.contract.SiteID.String(),
		RecurrencePattern: "DAILY", StartTime: "08:00", EndTime: "09:00",
		ValidFrom: "2025-01-01", ValidUntil: &until,
	})
	require.NoError(t, err)
	current := f.create(t, model.PatternDaily, "2025-01-01")

	n, err := f.svc.CompleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := f.svc.Get(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	got, err = f.svc.Get(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestGenerateAllSkipsInactiveContracts(t *testing.T) {
	f := setup(t, contractModel.StatusActive)
	f.create(t, model.PatternDaily, "2025-01-01")

	schedules, created, err := f.svc.GenerateAll(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, schedules)
	assert.Equal(t, 7, created)
}
