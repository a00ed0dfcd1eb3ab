package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	clientModel "cleanops_backend/internals/features/clients/client/model"
	"cleanops_backend/internals/features/clients/site/dto"
	"cleanops_backend/internals/features/clients/site/model"
	contractModel "cleanops_backend/internals/features/contracts/contract/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/dbtime"
	"cleanops_backend/internals/helpers/geo"
	"cleanops_backend/internals/testsupport"
)

type stubGeocoder struct {
	point geo.Point
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	g.calls++
	return g.point, g.err
}

func seedClient(t *testing.T, db *gorm.DB) clientModel.ClientModel {
	c := clientModel.ClientModel{ClientCode: "CLI-T-" + uuid.NewString()[:6], Name: "Acme", Type: "COMPANY", Status: "ACTIVE"}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func ptr[T any](v T) *T { return &v }

func TestCreateRequiresLiveClient(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewSiteService(db, testsupport.Logger(), nil)

	_, err := svc.Create(context.Background(), dto.CreateSiteRequest{ClientID: uuid.NewString(), Name: "HQ", Address: "1 Main"})
	require.Error(t, err)
	assert.Equal(t, 404, helper.StatusOf(err))
	assert.Contains(t, err.Error(), "client")
}

func TestCreateRejectsDegenerateFence(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewSiteService(db, testsupport.Logger(), nil)
	c := seedClient(t, db)

	_, err := svc.Create(context.Background(), dto.CreateSiteRequest{
		ClientID: c.ID.String(), Name: "HQ", Address: "1 Main",
		Geofence: []model.GeoPoint{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}},
	})
	var ae *helper.AppError
	require.True(t, errors.As(err, &ae))
	assert.Contains(t, ae.Fields, "geofence")
}

func TestCreateGeocodesMissingCoordinates(t *testing.T) {
	db := testsupport.NewDB(t)
	gc := &stubGeocoder{point: geo.Point{Lat: 48.85, Lng: 2.35}}
	svc := NewSiteService(db, testsupport.Logger(), gc)
	c := seedClient(t, db)

	m, err := svc.Create(context.Background(), dto.CreateSiteRequest{ClientID: c.ID.String(), Name: "HQ", Address: "1 Main", City: ptr("Paris")})
	require.NoError(t, err)
	require.True(t, m.HasCoordinates())
	assert.Equal(t, 48.85, *m.Latitude)
	assert.True(t, m.IsActive)

	// explicit coordinates are kept and the geocoder is not called
	_, err = svc.Create(context.Background(), dto.CreateSiteRequest{ClientID: c.ID.String(), Name: "B", Address: "2 Main", Latitude: ptr(1.0), Longitude: ptr(2.0)})
	require.NoError(t, err)
	assert.Equal(t, 1, gc.calls)
}

func TestCreateSurvivesGeocoderFailure(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewSiteService(db, testsupport.Logger(), &stubGeocoder{err: errors.New("boom")})
	c := seedClient(t, db)

	m, err := svc.Create(context.Background(), dto.CreateSiteRequest{ClientID: c.ID.String(), Name: "HQ", Address: "1 Main"})
	require.NoError(t, err)
	assert.False(t, m.HasCoordinates())
}

func TestGeocodeEndpoint(t *testing.T) {
	db := testsupport.NewDB(t)
	c := seedClient(t, db)

	off := NewSiteService(db, testsupport.Logger(), nil)
	m, err := off.Create(context.Background(), dto.CreateSiteRequest{ClientID: c.ID.String(), Name: "HQ", Address: "1 Main"})
	require.NoError(t, err)
	_, err = off.Geocode(context.Background(), m.ID)
	assert.Equal(t, 503, helper.StatusOf(err))

	on := NewSiteService(db, testsupport.Logger(), &stubGeocoder{point: geo.Point{Lat: 10, Lng: 20}})
	got, err := on.Geocode(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, *got.Longitude)

	miss := NewSiteService(db, testsupport.Logger(), &stubGeocoder{err: ErrNoGeocodeMatch})
	_, err = miss.Geocode(context.Background(), m.ID)
	assert.Equal(t, 400, helper.StatusOf(err))
}

func TestDeleteBlockedByOpenContract(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewSiteService(db, testsupport.Logger(), nil)
	c := seedClient(t, db)
	m, err := svc.Create(context.Background(), dto.CreateSiteRequest{ClientID: c.ID.String(), Name: "HQ", Address: "1 Main"})
	require.NoError(t, err)

	ctr := contractModel.ContractModel{
		ContractCode: "CTR-T-1", ClientID: c.ID, SiteID: m.ID, Type: "PERMANENT", Frequency: "DAILY",
		StartDate: dbtime.NewDate(2025, 1, 1), Status: contractModel.StatusPaused,
		Pricing:      datatypes.NewJSONType(contractModel.PricingModel{Model: "HOURLY", BasePrice: 1, Currency: "EUR", BillingCycle: "MONTHLY"}),
		ServiceScope: datatypes.NewJSONType(contractModel.ServiceScope{Tasks: []string{"x"}}),
	}
	require.NoError(t, db.Create(&ctr).Error)

	assert.Equal(t, 409, helper.StatusOf(svc.Delete(context.Background(), m.ID)))

	require.NoError(t, db.Model(&ctr).Update("status", contractModel.StatusCancelled).Error)
	require.NoError(t, svc.Delete(context.Background(), m.ID))

	got, err := svc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.True(t, got.DeletedAt.Valid)
}

func TestUpdateGeofenceAndFilters(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewSiteService(db, testsupport.Logger(), nil)
	c := seedClient(t, db)
	m, err := svc.Create(context.Background(), dto.CreateSiteRequest{ClientID: c.ID.String(), Name: "HQ", Address: "1 Main", IsActive: ptr(false)})
	require.NoError(t, err)

	fence := []model.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}
	got, err := svc.Update(context.Background(), m.ID, dto.UpdateSiteRequest{Geofence: &fence})
	require.NoError(t, err)
	assert.Len(t, got.Geofence, 3)

	rows, _, err := svc.List(context.Background(), helper.ListQuery{}.Normalize(), dto.ListSitesQuery{ClientID: c.ID.String(), IsActive: "false"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, _, err = svc.List(context.Background(), helper.ListQuery{}.Normalize(), dto.ListSitesQuery{IsActive: "true"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
