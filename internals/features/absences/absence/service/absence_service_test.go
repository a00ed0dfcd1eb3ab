package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanops_backend/internals/features/absences/absence/dto"
	"cleanops_backend/internals/features/absences/absence/model"
	userModel "cleanops_backend/internals/features/users/user/model"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/testsupport"
)

func TestCreateRejectsOverlap(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewAbsenceService(db, testsupport.Logger())
	ctx := context.Background()
	agent := testsupport.CreateUser(t, db, "agent@acme.test", userModel.RoleAgent)
	other := testsupport.CreateUser(t, db, "other@acme.test", userModel.RoleAgent)

	_, err := svc.Create(ctx, dto.CreateAbsenceRequest{
		AgentID: agent.ID.String(), AbsenceType: model.TypeVacation, StartDate: "2025-07-01", EndDate: "2025-07-14",
	})
	require.NoError(t, err)

	cases := []struct {
		name       string
		agent      string
		start, end string
		want       int
	}{
		{"inside", agent.ID.String(), "2025-07-05", "2025-07-06", 409},
		{"touching last day", agent.ID.String(), "2025-07-14", "2025-07-20", 409},
		{"covering", agent.ID.String(), "2025-06-01", "2025-08-01", 409},
		{"day after", agent.ID.String(), "2025-07-15", "2025-07-16", 0},
		{"other agent", other.ID.String(), "2025-07-05", "2025-07-06", 0},
		{"unknown agent", uuid.NewString(), "2025-01-01", "2025-01-02", 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, dto.CreateAbsenceRequest{
				AgentID: tc.agent, AbsenceType: model.TypeSickLeave, StartDate: tc.start, EndDate: tc.end,
			})
			if tc.want == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.want, helper.StatusOf(err))
		})
	}
}

func TestUpdateChecksOverlapAgainstOthersOnly(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewAbsenceService(db, testsupport.Logger())
	ctx := context.Background()
	agent := testsupport.CreateUser(t, db, "agent@acme.test", userModel.RoleAgent)

	a, err := svc.Create(ctx, dto.CreateAbsenceRequest{AgentID: agent.ID.String(), AbsenceType: model.TypeVacation, StartDate: "2025-07-01", EndDate: "2025-07-10"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateAbsenceRequest{AgentID: agent.ID.String(), AbsenceType: model.TypeUnpaid, StartDate: "2025-08-01", EndDate: "2025-08-02"})
	require.NoError(t, err)

	end := "2025-07-12"
	got, err := svc.Update(ctx, a.ID, dto.UpdateAbsenceRequest{EndDate: &end})
	require.NoError(t, err, "extending its own period")
	assert.Equal(t, "2025-07-12", got.EndDate.String())

	end = "2025-08-01"
	_, err = svc.Update(ctx, a.ID, dto.UpdateAbsenceRequest{EndDate: &end})
	assert.Equal(t, 409, helper.StatusOf(err))

	start := "2025-07-20"
	_, err = svc.Update(ctx, a.ID, dto.UpdateAbsenceRequest{StartDate: &start})
	assert.Equal(t, 400, helper.StatusOf(err), "start after stored end")
}

func TestListOverlapWindow(t *testing.T) {
	db := testsupport.NewDB(t)
	svc := NewAbsenceService(db, testsupport.Logger())
	ctx := context.Background()
	agent := testsupport.CreateUser(t, db, "agent@acme.test", userModel.RoleAgent)

	for _, p := range [][2]string{{"2025-06-01", "2025-06-05"}, {"2025-06-10", "2025-06-20"}, {"2025-07-01", "2025-07-02"}} {
		_, err := svc.Create(ctx, dto.CreateAbsenceRequest{AgentID: agent.ID.String(), AbsenceType: model.TypeAuthorized, StartDate: p[0], EndDate: p[1]})
		require.NoError(t, err)
	}

	lq := helper.ListQuery{Page: 1, Limit: 20}.Normalize()
	_, p, err := svc.List(ctx, lq, dto.ListAbsencesQuery{From: "2025-06-05", To: "2025-06-12"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Total)

	_, p, err = svc.List(ctx, lq, dto.ListAbsencesQuery{Type: model.TypeVacation})
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.Total)
}
