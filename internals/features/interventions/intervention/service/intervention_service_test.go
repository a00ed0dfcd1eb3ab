package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	clientModel "cleanops_backend/internals/features/clients/client/model"
	siteModel "cleanops_backend/internals/features/clients/site/model"
	contractModel "cleanops_backend/internals/features/contracts/contract/model"
	"cleanops_backend/internals/features/interventions/intervention/dto"
	"cleanops_backend/internals/features/interventions/intervention/model"
	userModel "cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/media"
	"cleanops_backend/internals/testsupport"
)

type stubStore struct {
	saved []string
	err   error
}

func (s *stubStore) SavePhoto(folder string, _ []byte, filename string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	url := "http://files.test/uploads/" + folder + "/" + filename + ".webp"
	s.saved = append(s.saved, url)
	return url, nil
}

type fixture struct {
	db       *gorm.DB
	svc      *InterventionService
	store    *stubStore
	contract contractModel.ContractModel
	clock    *time.Time
}

func setup(t *testing.T) fixture {
	db := testsupport.NewDB(t)
	c := clientModel.ClientModel{ClientCode: "CLI-T-1", Name: "Acme", Type: "COMPANY", Status: "ACTIVE"}
	require.NoError(t, db.Create(&c).Error)
	lat, lng := 48.8566, 2.3522
	s := siteModel.SiteModel{
		ClientID: c.ID, Name: "HQ", Address: "1 Rue de Rivoli", IsActive: true,
		Latitude: &lat, Longitude: &lng,
		Geofence: datatypes.JSONSlice[siteModel.GeoPoint]{
			{Lat: 48.855, Lng: 2.351}, {Lat: 48.855, Lng: 2.354},
			{Lat: 48.858, Lng: 2.354}, {Lat: 48.858, Lng: 2.351},
		},
	}
	require.NoError(t, db.Create(&s).Error)
	ctr := contractModel.ContractModel{
		ContractCode: "CTR-T-1", ClientID: c.ID, SiteID: s.ID, Type: "PERMANENT", Frequency: "WEEKLY",
		StartDate: helper.MustDate("2025-01-01"), Status: contractModel.StatusActive,
		Pricing:      datatypes.NewJSONType(contractModel.PricingModel{Model: "FIXED_MONTHLY", BasePrice: 1, Currency: "EUR", BillingCycle: "MONTHLY"}),
		ServiceScope: datatypes.NewJSONType(contractModel.ServiceScope{Tasks: []string{"floors"}}),
	}
	require.NoError(t, db.Create(&ctr).Error)

	store := &stubStore{}
	clock := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	svc := NewInterventionService(db, testsupport.Logger(), store)
	f := fixture{db: db, svc: svc, store: store, contract: ctr, clock: &clock}
	svc.now = func() time.Time { return *f.clock }
	return f
}

func (f fixture) create(t *testing.T, date string, agents ...string) *model.InterventionModel {
	m, err := f.svc.Create(context.Background(), dto.CreateInterventionRequest{
		ContractID:         f.contract.ID.String(),
		ScheduledDate:      date,
		ScheduledStartTime: "08:00",
		ScheduledEndTime:   "10:00",
		AgentIDs:           agents,
	})
	require.NoError(t, err)
	return m
}

func gps(lat, lng float64) dto.GPSRequest {
	return dto.GPSRequest{Latitude: &lat, Longitude: &lng}
}

func TestCreateAssignsCodeSiteAndAgents(t *testing.T) {
	f := setup(t)
	agent := testsupport.CreateUser(t, f.db, "agent@acme.test", userModel.RoleAgent)

	m := f.create(t, "2025-01-10", agent.ID.String())
	assert.Equal(t, "INT-2025-000001", m.InterventionCode)
	assert.Equal(t, f.contract.SiteID, m.SiteID)
	assert.Equal(t, model.StatusScheduled, m.Status)
	assert.Equal(t, []uuid.UUID{agent.ID}, m.AgentIDs)

	got, err := f.svc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{agent.ID}, got.AgentIDs)
}

func TestCreateRejectsForeignSiteAndUnknownAgent(t *testing.T) {
	f := setup(t)
	other := uuid.NewString()
	_, err := f.svc.Create(context.Background(), dto.CreateInterventionRequest{
		ContractID: f.contract.ID.String(), SiteID: &other,
		ScheduledDate: "2025-01-10", ScheduledStartTime: "08:00", ScheduledEndTime: "09:00",
	})
	assert.Equal(t, 400, helper.StatusOf(err))

	_, err = f.svc.Create(context.Background(), dto.CreateInterventionRequest{
		ContractID:    f.contract.ID.String(),
		ScheduledDate: "2025-01-10", ScheduledStartTime: "08:00", ScheduledEndTime: "09:00",
		AgentIDs: []string{uuid.NewString()},
	})
	assert.Equal(t, 404, helper.StatusOf(err))
}

func TestListFilters(t *testing.T) {
	f := setup(t)
	agent := testsupport.CreateUser(t, f.db, "agent@acme.test", userModel.RoleAgent)
	f.create(t, "2025-01-08")
	mine := f.create(t, "2025-01-10", agent.ID.String())
	f.create(t, "2025-01-20")

	lq := helper.ListQuery{Page: 1, Limit: 20}.Normalize()

	rows, p, err := f.svc.List(context.Background(), lq, dto.ListInterventionsQuery{AgentID: agent.ID.String()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)
	assert.EqualValues(t, 1, p.Total)

	_, p, err = f.svc.List(context.Background(), lq, dto.ListInterventionsQuery{From: "2025-01-08", To: "2025-01-10"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Total)

	_, p, err = f.svc.List(context.Background(), lq, dto.ListInterventionsQuery{Status: model.StatusCompleted})
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.Total)
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	f := setup(t)
	m := f.create(t, "2025-01-06")

	_, err := f.svc.CheckOut(context.Background(), m.ID, gps(48.8566, 2.3522))
	assert.Equal(t, 409, helper.StatusOf(err))
}

func TestCheckInAndOutRecordsVisit(t *testing.T) {
	f := setup(t)
	m := f.create(t, "2025-01-06")

	in, err := f.svc.CheckIn(context.Background(), m.ID, gps(48.8566, 2.3522))
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, in.Status)
	require.NotNil(t, in.CheckInAt)
	require.NotNil(t, in.CheckInDistanceMeters)
	assert.Less(t, *in.CheckInDistanceMeters, 1.0)
	require.NotNil(t, in.CheckInWithinGeofence)
	assert.True(t, *in.CheckInWithinGeofence)

	_, err = f.svc.CheckIn(context.Background(), m.ID, gps(48.8566, 2.3522))
	assert.Equal(t, 409, helper.StatusOf(err), "second check-in")

	*f.clock = f.clock.Add(95 * time.Minute)
	out, err := f.svc.CheckOut(context.Background(), m.ID, gps(48.8566, 2.3522))
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, out.Status)
	require.NotNil(t, out.ActualDurationMinutes)
	assert.Equal(t, 95, *out.ActualDurationMinutes)
}

func TestCheckInOutsideFenceIsRecordedNotRejected(t *testing.T) {
	f := setup(t)
	m := f.create(t, "2025-01-06")

	in, err := f.svc.CheckIn(context.Background(), m.ID, gps(48.8738, 2.2950))
	require.NoError(t, err)
	require.NotNil(t, in.CheckInWithinGeofence)
	assert.False(t, *in.CheckInWithinGeofence)
	assert.Greater(t, *in.CheckInDistanceMeters, 1000.0)
}

func TestPatchStatusRules(t *testing.T) {
	f := setup(t)
	m := f.create(t, "2025-01-06")
	ctx := context.Background()

	inProgress := model.StatusInProgress
	_, err := f.svc.Update(ctx, m.ID, dto.UpdateInterventionRequest{Status: &inProgress})
	assert.Equal(t, 409, helper.StatusOf(err))

	score := 4
	_, err = f.svc.Update(ctx, m.ID, dto.UpdateInterventionRequest{QualityScore: &score})
	assert.Equal(t, 409, helper.StatusOf(err), "quality score before completion")

	_, err = f.svc.CheckIn(ctx, m.ID, gps(48.8566, 2.3522))
	require.NoError(t, err)
	_, err = f.svc.CheckOut(ctx, m.ID, gps(48.8566, 2.3522))
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, m.ID, dto.UpdateInterventionRequest{QualityScore: &score})
	require.NoError(t, err)
	require.NotNil(t, got.QualityScore)
	assert.Equal(t, 4, *got.QualityScore)

	cancelled := model.StatusCancelled
	_, err = f.svc.Update(ctx, m.ID, dto.UpdateInterventionRequest{Status: &cancelled})
	assert.Equal(t, 409, helper.StatusOf(err), "completed is terminal")
}

func TestRescheduleThenCheckIn(t *testing.T) {
	f := setup(t)
	m := f.create(t, "2025-01-06")
	ctx := context.Background()
	reason := "client closed"

	got, err := f.svc.Reschedule(ctx, m.ID, dto.RescheduleRequest{
		NewDate: "2025-01-09", NewStartTime: "13:00", NewEndTime: "15:00", Reason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPostponed, got.Status)
	assert.Equal(t, "2025-01-09", got.ScheduledDate.String())
	require.NotNil(t, got.PostponedFromDate)
	assert.Equal(t, "2025-01-06", got.PostponedFromDate.String())

	got, err = f.svc.Reschedule(ctx, m.ID, dto.RescheduleRequest{
		NewDate: "2025-01-10", NewStartTime: "13:00", NewEndTime: "15:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", got.PostponedFromDate.String(), "original date is kept")

	got, err = f.svc.CheckIn(ctx, m.ID, gps(48.8566, 2.3522))
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
}

func TestCancelIsTerminal(t *testing.T) {
	f := setup(t)
	m := f.create(t, "2025-01-06")
	ctx := context.Background()

	got, err := f.svc.Cancel(ctx, m.ID, dto.CancelRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status)

	_, err = f.svc.Cancel(ctx, m.ID, dto.CancelRequest{})
	assert.Equal(t, 409, helper.StatusOf(err))
	_, err = f.svc.CheckIn(ctx, m.ID, gps(48.8566, 2.3522))
	assert.Equal(t, 409, helper.StatusOf(err))
}

func TestDeleteInProgressIsRejected(t *testing.T) {
	f := setup(t)
	m := f.create(t, "2025-01-06")
	ctx := context.Background()
	_, err := f.svc.CheckIn(ctx, m.ID, gps(48.8566, 2.3522))
	require.NoError(t, err)

	assert.Equal(t, 409, helper.StatusOf(f.svc.Delete(ctx, m.ID)))
}

func TestSetAgentsReplacesAssignment(t *testing.T) {
	f := setup(t)
	a := testsupport.CreateUser(t, f.db, "a@acme.test", userModel.RoleAgent)
	b := testsupport.CreateUser(t, f.db, "b@acme.test", userModel.RoleAgent)
	m := f.create(t, "2025-01-06", a.ID.String())

	got, err := f.svc.SetAgents(context.Background(), m.ID, dto.SetAgentsRequest{AgentIDs: []string{b.ID.String()}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, got.AgentIDs)
}

func TestAddPhoto(t *testing.T) {
	f := setup(t)
	m := f.create(t, "2025-01-06")
	ctx := context.Background()

	got, err := f.svc.AddPhoto(ctx, m.ID, []byte("img"), "front")
	require.NoError(t, err)
	assert.Equal(t, f.store.saved, []string(got.PhotoURLs))

	f.store.err = media.ErrUnsupportedImage
	_, err = f.svc.AddPhoto(ctx, m.ID, []byte("txt"), "notes.txt")
	assert.Equal(t, 400, helper.StatusOf(err))

	f.store.err = errors.New("disk full")
	_, err = f.svc.AddPhoto(ctx, m.ID, []byte("img"), "x")
	assert.Equal(t, 500, helper.StatusOf(err))

	noStore := NewInterventionService(f.db, testsupport.Logger(), nil)
	_, err = noStore.AddPhoto(ctx, m.ID, []byte("img"), "x")
	assert.Equal(t, 503, helper.StatusOf(err))
}

func TestExportWritesWorkbook(t *testing.T) {
	f := setup(t)
	f.create(t, "2025-01-07")
	f.create(t, "2025-01-06")

	data, n, err := f.svc.Export(context.Background(), helper.ListQuery{Page: 1, Limit: 20}.Normalize(), dto.ListInterventionsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Code", rows[0][0])
	assert.Equal(t, "2025-01-06", rows[1][2])
	assert.Equal(t, "INT-2025-000002", rows[1][0])
}
