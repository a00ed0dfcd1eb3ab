package dto

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanops_backend/internals/features/contracts/contract/model"
	helper "cleanops_backend/internals/helpers"
)

func validRequest() CreateContractRequest {
	return CreateContractRequest{
		ClientID:  uuid.NewString(),
		SiteID:    uuid.NewString(),
		Type:      "PERMANENT",
		Frequency: "WEEKLY",
		StartDate: "2025-01-01",
		Pricing:   model.PricingModel{Model: "FIXED_MONTHLY", BasePrice: 500, Currency: "EUR", BillingCycle: "MONTHLY"},
		ServiceScope: model.ServiceScope{
			Tasks: []string{"floors", "windows"},
		},
	}
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ae *helper.AppError
	require.True(t, errors.As(err, &ae), "expected AppError, got %v", err)
	assert.Equal(t, 400, ae.Status)
	return ae.Fields
}

func TestCreateContractValid(t *testing.T) {
	v := helper.NewValidator()
	r := validRequest()
	assert.NoError(t, v.Struct(&r))
}

func TestCreateContractMissingClient(t *testing.T) {
	v := helper.NewValidator()
	r := validRequest()
	r.ClientID = ""
	fields := fieldsOf(t, v.Struct(&r))
	assert.Equal(t, []string{"clientId is required"}, fields["clientId"])

	r.ClientID = "not-a-uuid"
	fields = fieldsOf(t, v.Struct(&r))
	assert.Equal(t, []string{"clientId must be a UUID"}, fields["clientId"])
}

func TestCreateContractAdHocNeedsEndDate(t *testing.T) {
	v := helper.NewValidator()
	r := validRequest()
	r.Type = "AD_HOC"
	fields := fieldsOf(t, v.Struct(&r))
	assert.Contains(t, fields, "endDate")

	before := "2024-12-31"
	r.EndDate = &before
	fields = fieldsOf(t, v.Struct(&r))
	assert.Equal(t, []string{"endDate must be on or after startDate"}, fields["endDate"])

	after := "2025-03-01"
	r.EndDate = &after
	assert.NoError(t, v.Struct(&r))
}

func TestCreateContractNestedPricing(t *testing.T) {
	v := helper.NewValidator()
	r := validRequest()
	r.Pricing.Currency = "EURO"
	r.Pricing.Model = "HOURLY"
	r.ServiceScope.Tasks = nil
	fields := fieldsOf(t, v.Struct(&r))
	assert.Contains(t, fields, "pricing.currency")
	assert.Contains(t, fields, "pricing.hourlyRate")
	assert.Contains(t, fields, "serviceScope.tasks")
}

func TestCreateContractOnlyDraft(t *testing.T) {
	v := helper.NewValidator()
	r := validRequest()
	r.Status = "ACTIVE"
	fields := fieldsOf(t, v.Struct(&r))
	assert.Equal(t, []string{"status must be DRAFT"}, fields["status"])
}
