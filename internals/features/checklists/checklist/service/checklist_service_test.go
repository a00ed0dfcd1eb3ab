package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/checklists/checklist/dto"
	"cleanops_backend/internals/features/checklists/checklist/model"
	interventionModel "cleanops_backend/internals/features/interventions/intervention/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/testsupport"
)

func seedIntervention(t *testing.T, db *gorm.DB, status string) interventionModel.InterventionModel {
	iv := interventionModel.InterventionModel{
		InterventionCode:   "INT-T-" + uuid.NewString()[:8],
		ContractID:         uuid.New(),
		SiteID:             uuid.New(),
		ScheduledDate:      helper.MustDate("2025-01-06"),
		ScheduledStartTime: "08:00",
		ScheduledEndTime:   "10:00",
		Status:             status,
		PhotoURLs:          []string{},
	}
	require.NoError(t, db.Create(&iv).Error)
	return iv
}

func newTemplate(t *testing.T, svc *ChecklistService) *model.ChecklistTemplateModel {
	tpl, err := svc.CreateTemplate(context.Background(), dto.CreateTemplateRequest{
		Name: "Office standard",
		Items: []dto.TemplateItemRequest{
			{Label: "Empty bins"},
			{Label: "Mop floors", RequiresPhoto: true},
		},
	})
	require.NoError(t, err)
	return tpl
}

func TestTemplateCRUD(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewChecklistService(db, testsupport.Logger())
	ctx := context.Background()

	tpl := newTemplate(t, svc)
	assert.True(t, tpl.IsActive)
	require.Len(t, tpl.Items, 2)

	name := "Office deluxe"
	got, err := svc.UpdateTemplate(ctx, tpl.ID, dto.UpdateTemplateRequest{
		Name:  &name,
		Items: []dto.TemplateItemRequest{{Label: "Dust desks"}, {Label: "Clean windows"}, {Label: "Vacuum"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Office deluxe", got.Name)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Dust desks", got.Items[0].Label)
	assert.Equal(t, 3, got.Items[2].Position)

	rows, p, err := svc.ListTemplates(ctx, helper.ListQuery{Page: 1, Limit: 20, Search: "deluxe"}.Normalize(), dto.ListTemplatesQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Total)
	assert.Len(t, rows[0].Items, 3)

	require.NoError(t, svc.DeleteTemplate(ctx, tpl.ID))
	_, p, err = svc.ListTemplates(ctx, helper.ListQuery{Page: 1, Limit: 20}.Normalize(), dto.ListTemplatesQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.Total)
}

func TestInstanceLifecycle(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewChecklistService(db, testsupport.Logger())
	ctx := context.Background()
	tpl := newTemplate(t, svc)
	iv := seedIntervention(t, db, interventionModel.StatusCompleted)
	user := uuid.New()

	inst, err := svc.CreateInstance(ctx, dto.CreateInstanceRequest{TemplateID: tpl.ID.String(), InterventionID: iv.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, model.InstancePending, inst.Status)
	require.Len(t, inst.Items, 2)

	_, err = svc.CreateInstance(ctx, dto.CreateInstanceRequest{TemplateID: tpl.ID.String(), InterventionID: iv.ID.String()})
	assert.Equal(t, 409, helper.StatusOf(err), "one checklist per intervention")

	_, err = svc.Review(ctx, inst.ID, user, dto.ReviewRequest{QualityScore: 4})
	assert.Equal(t, 409, helper.StatusOf(err), "review before completion")

	bins, mop := inst.Items[0], inst.Items[1]
	got, err := svc.CompleteItem(ctx, inst.ID, bins.ID, user, dto.CompleteItemRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.InstanceInProgress, got.Status)

	_, err = svc.CompleteItem(ctx, inst.ID, bins.ID, user, dto.CompleteItemRequest{})
	assert.Equal(t, 409, helper.StatusOf(err), "already completed")

	_, err = svc.CompleteItem(ctx, inst.ID, mop.ID, user, dto.CompleteItemRequest{})
	assert.Equal(t, 400, helper.StatusOf(err), "photo required")

	got, err = svc.CompleteItem(ctx, inst.ID, mop.ID, user, dto.CompleteItemRequest{PhotoURLs: []string{"http://files.test/mop.webp"}})
	require.NoError(t, err)
	assert.Equal(t, model.InstanceCompleted, got.Status)
	assert.Equal(t, []string{"http://files.test/mop.webp"}, []string(got.Items[1].PhotoURLs))

	got, err = svc.Review(ctx, inst.ID, user, dto.ReviewRequest{QualityScore: 4})
	require.NoError(t, err)
	assert.Equal(t, model.InstanceReviewed, got.Status)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, user, *got.ReviewedBy)

	var after interventionModel.InterventionModel
	require.NoError(t, db.First(&after, "id = ?", iv.ID).Error)
	require.NotNil(t, after.QualityScore)
	assert.Equal(t, 4, *after.QualityScore)
}

func TestCreateInstanceRules(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewChecklistService(db, testsupport.Logger())
	ctx := context.Background()
	tpl := newTemplate(t, svc)

	cancelled := seedIntervention(t, db, interventionModel.StatusCancelled)
	_, err := svc.CreateInstance(ctx, dto.CreateInstanceRequest{TemplateID: tpl.ID.String(), InterventionID: cancelled.ID.String()})
	assert.Equal(t, 409, helper.StatusOf(err))

	_, err = svc.CreateInstance(ctx, dto.CreateInstanceRequest{TemplateID: tpl.ID.String(), InterventionID: uuid.NewString()})
	assert.Equal(t, 404, helper.StatusOf(err))

	off := false
	_, err = svc.UpdateTemplate(ctx, tpl.ID, dto.UpdateTemplateRequest{IsActive: &off})
	require.NoError(t, err)
	iv := seedIntervention(t, db, interventionModel.StatusScheduled)
	_, err = svc.CreateInstance(ctx, dto.CreateInstanceRequest{TemplateID: tpl.ID.String(), InterventionID: iv.ID.String()})
	assert.Equal(t, 409, helper.StatusOf(err), "inactive template")
}

func TestCompleteItemOfOtherInstanceIsNotFound(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewChecklistService(db, testsupport.Logger())
	ctx := context.Background()
	tpl := newTemplate(t, svc)

	a, err := svc.CreateInstance(ctx, dto.CreateInstanceRequest{TemplateID: tpl.ID.String(), InterventionID: seedIntervention(t, db, "SCHEDULED").ID.String()})
	require.NoError(t, err)
	b, err := svc.CreateInstance(ctx, dto.CreateInstanceRequest{TemplateID: tpl.ID.String(), InterventionID: seedIntervention(t, db, "SCHEDULED").ID.String()})
	require.NoError(t, err)

	_, err = svc.CompleteItem(ctx, a.ID, b.Items[0].ID, uuid.New(), dto.CompleteItemRequest{})
	assert.Equal(t, 404, helper.StatusOf(err))
}
