package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	clientModel "cleanops_backend/internals/features/clients/client/model"
	siteModel "cleanops_backend/internals/features/clients/site/model"
	"cleanops_backend/internals/features/contracts/contract/dto"
	"cleanops_backend/internals/features/contracts/contract/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/testsupport"
)

type fixture struct {
	svc    *ContractService
	db     *gorm.DB
	client clientModel.ClientModel
	site   siteModel.SiteModel
}

func setup(t *testing.T) fixture {
	db := testsupport.NewDB(t)
	c := clientModel.ClientModel{ClientCode: "CLI-T-1", Name: "Acme", Type: "COMPANY", Status: "ACTIVE"}
	require.NoError(t, db.Create(&c).Error)
	s := siteModel.SiteModel{ClientID: c.ID, Name: "HQ", Address: "1 Main", IsActive: true}
	require.NoError(t, db.Create(&s).Error)
	return fixture{svc: NewContractService(db, testsupport.Logger()), db: db, client: c, site: s}
}

func (f fixture) request() dto.CreateContractRequest {
	return dto.CreateContractRequest{
		ClientID:     f.client.ID.String(),
		SiteID:       f.site.ID.String(),
		Type:         model.TypePermanent,
		Frequency:    "WEEKLY",
		StartDate:    "2025-01-01",
		Pricing:      model.PricingModel{Model: "FIXED_MONTHLY", BasePrice: 500, Currency: "EUR", BillingCycle: "MONTHLY"},
		ServiceScope: model.ServiceScope{Tasks: []string{"floors"}},
	}
}

func status(s string) dto.UpdateContractRequest { return dto.UpdateContractRequest{Status: &s} }

func TestCreateStoresDraftWithCode(t *testing.T) {
	f := setup(t)
	m, err := f.svc.Create(context.Background(), f.request())
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, m.Status)
	assert.Regexp(t, `^CTR-\d{4}-000001$`, m.ContractCode)
	assert.Equal(t, "EUR", m.Pricing.Data().Currency)

	got, err := f.svc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"floors"}, got.ServiceScope.Data().Tasks)
	assert.Equal(t, "2025-01-01", got.StartDate.String())
}

func TestCreateSiteMustBelongToClient(t *testing.T) {
	f := setup(t)
	other := clientModel.ClientModel{ClientCode: "CLI-T-2", Name: "Other", Type: "COMPANY", Status: "ACTIVE"}
	require.NoError(t, f.db.Create(&other).Error)

	r := f.request()
	r.ClientID = other.ID.String()
	_, err := f.svc.Create(context.Background(), r)
	assert.Equal(t, 400, helper.StatusOf(err))
}

func TestCreateMissingReferences(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Delete(&f.site).Error)

	_, err := f.svc.Create(context.Background(), f.request())
	require.Error(t, err)
	assert.Equal(t, 404, helper.StatusOf(err))
	assert.Contains(t, err.Error(), "site "+f.site.ID.String()+" not found")
}

func TestStatusMachine(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m, err := f.svc.Create(ctx, f.request())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, m.ID, status(model.StatusActive))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, m.ID, status(model.StatusDraft))
	require.Error(t, err)
	assert.Equal(t, 409, helper.StatusOf(err))
	assert.Contains(t, err.Error(), "cannot transition contract from ACTIVE to DRAFT")

	// same status is a no-op
	got, err := f.svc.Update(ctx, m.ID, status(model.StatusActive))
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	_, err = f.svc.Update(ctx, m.ID, status(model.StatusPaused))
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, m.ID, status(model.StatusCancelled))
	require.NoError(t, err)

	for _, to := range []string{model.StatusDraft, model.StatusActive, model.StatusPaused, model.StatusCompleted} {
		_, err = f.svc.Update(ctx, m.ID, status(to))
		assert.Equal(t, 409, helper.StatusOf(err), to)
	}

	notes := "late edit"
	_, err = f.svc.Update(ctx, m.ID, dto.UpdateContractRequest{Notes: &notes})
	assert.Equal(t, 409, helper.StatusOf(err))
}

func TestUpdateEndDateBeforeStoredStart(t *testing.T) {
	f := setup(t)
	m, err := f.svc.Create(context.Background(), f.request())
	require.NoError(t, err)

	end := "2024-06-01"
	_, err = f.svc.Update(context.Background(), m.ID, dto.UpdateContractRequest{EndDate: &end})
	assert.Equal(t, 400, helper.StatusOf(err))
}

func TestDeletePolicy(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	draft, err := f.svc.Create(ctx, f.request())
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, draft.ID))

	active, err := f.svc.Create(ctx, f.request())
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, active.ID, status(model.StatusActive))
	require.NoError(t, err)
	assert.Equal(t, 409, helper.StatusOf(f.svc.Delete(ctx, active.ID)))

	_, err = f.svc.Update(ctx, active.ID, status(model.StatusCompleted))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, active.ID))

	rows, p, err := f.svc.List(ctx, helper.ListQuery{}.Normalize(), dto.ListContractsQuery{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, p.TotalPages)
}
