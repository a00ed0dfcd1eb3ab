package helper

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pricingInput struct {
	BasePrice float64 `json:"basePrice" validate:"gt=0"`
	Currency  string  `json:"currency" validate:"required,iso4217"`
}

type sampleInput struct {
	ClientID  string       `json:"clientId" validate:"required,uuid"`
	Code      string       `json:"code" validate:"required,max=10,uppercode"`
	Rating    *int         `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Latitude  *float64     `json:"latitude" validate:"required,gte=-90,lte=90"`
	StartDate string       `json:"startDate" validate:"required,isodate"`
	EndDate   *string      `json:"endDate" validate:"omitempty,isodate,gtedate=StartDate"`
	StartTime string       `json:"startTime" validate:"required,hhmm"`
	EndTime   string       `json:"endTime" validate:"required,hhmm,gttime=StartTime"`
	Status    string       `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE"`
	Pricing   pricingInput `json:"pricing"`
}

func ptr[T any](v T) *T { return &v }

func validSample() sampleInput {
	return sampleInput{
		ClientID:  "6f1c2d3e-4a5b-4c6d-8e7f-8091a2b3c4d5",
		Code:      "NORD-1",
		Rating:    ptr(5),
		Latitude:  ptr(0.0),
		StartDate: "2025-01-01",
		EndDate:   ptr("2025-01-01"),
		StartTime: "08:00",
		EndTime:   "10:30",
		Pricing:   pricingInput{BasePrice: 100, Currency: "EUR"},
	}
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ae *AppError
	require.True(t, errors.As(err, &ae), "expected AppError, got %v", err)
	assert.Equal(t, fiber.StatusBadRequest, ae.Status)
	return ae.Fields
}

func TestValidator_ValidInput(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Struct(validSample()))
}

func TestValidator_CollectsAllFieldsInOnePass(t *testing.T) {
	v := NewValidator()
	in := validSample()
	in.ClientID = ""
	in.Code = "toolong-code"
	in.Rating = ptr(6)
	in.Latitude = ptr(91.0)
	in.EndDate = ptr("2024-12-31")
	in.EndTime = "07:00"
	in.Status = "ARCHIVED"
	in.Pricing.Currency = "EURO"

	fields := fieldsOf(t, v.Struct(in))
	assert.Equal(t, []string{"clientId is required"}, fields["clientId"])
	assert.Equal(t, []string{"code must be at most 10 characters"}, fields["code"])
	assert.Equal(t, []string{"rating must be less than or equal to 5"}, fields["rating"])
	assert.Equal(t, []string{"latitude must be less than or equal to 90"}, fields["latitude"])
	assert.Equal(t, []string{"endDate must be on or after startDate"}, fields["endDate"])
	assert.Equal(t, []string{"endTime must be after startTime"}, fields["endTime"])
	assert.Equal(t, []string{"status must be one of [DRAFT, ACTIVE]"}, fields["status"])
	assert.Equal(t, []string{"pricing.currency must be an ISO 4217 currency code"}, fields["pricing.currency"])
}

func TestValidator_FormatErrors(t *testing.T) {
	v := NewValidator()
	in := validSample()
	in.ClientID = "not-a-uuid"
	in.StartDate = "01/02/2025"
	in.StartTime = "8h"
	in.Latitude = nil

	fields := fieldsOf(t, v.Struct(in))
	assert.Equal(t, []string{"clientId must be a UUID"}, fields["clientId"])
	assert.Equal(t, []string{"startDate must be a date in YYYY-MM-DD format"}, fields["startDate"])
	assert.Equal(t, []string{"startTime must be a time in HH:MM format"}, fields["startTime"])
	assert.Equal(t, []string{"latitude is required"}, fields["latitude"])
}

func TestErrorHandler_Shapes(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
	app.Get("/validation", func(c *fiber.Ctx) error { return NewFieldError("clientId", "clientId is required") })
	app.Get("/missing", func(c *fiber.Ctx) error { return NewNotFound("client", "42") })
	app.Get("/transition", func(c *fiber.Ctx) error { return NewInvalidTransition("contract", "ACTIVE", "DRAFT") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusUnauthorized, "Invalid token") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db exploded") })
	app.Get("/unique", func(c *fiber.Ctx) error { return errors.New(`ERROR: duplicate key value violates unique constraint "zones_code"`) })

	cases := []struct {
		path string
		want string
		code int
	}{
		{"/validation", `{"statusCode":400,"message":"Validation failed","error":"Bad Request","errors":{"clientId":["clientId is required"]}}`, 400},
		{"/missing", `{"statusCode":404,"message":"client 42 not found","error":"Not Found"}`, 404},
		{"/transition", `{"statusCode":409,"message":"cannot transition contract from ACTIVE to DRAFT","error":"Conflict"}`, 409},
		{"/fiber", `{"statusCode":401,"message":"Invalid token","error":"Unauthorized"}`, 401},
		{"/boom", `{"statusCode":500,"message":"internal server error","error":"Internal Server Error"}`, 500},
		{"/unique", `{"statusCode":409,"message":"resource already exists","error":"Conflict"}`, 409},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, tc.code, resp.StatusCode, tc.path)
		assert.JSONEq(t, tc.want, string(body), tc.path)
	}
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	v := NewValidator()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
	app.Post("/", func(c *fiber.Ctx) error {
		var in sampleInput
		if err := BindAndValidate(c, v, &in); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"clientId":`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "malformed JSON body")
}

func TestParamUUID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
	app.Get("/clients/:id", func(c *fiber.Ctx) error {
		id, err := ParamUUID(c, "id")
		if err != nil {
			return err
		}
		return c.SendString(id.String())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/clients/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/clients/6f1c2d3e-4a5b-4c6d-8e7f-8091a2b3c4d5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
