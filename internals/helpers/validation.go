package helper

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cleanops_backend/internals/helpers/dbtime"
)

/* ===============================
   Validator (declarative, single pass)
=================================*/

// Validator wraps one validator.Validate with the custom rules registered.
type Validator struct {
	v *validator.Validate
}

var upperCodeRe = regexp.MustCompile(`^[A-Z0-9_-]+$`)

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := dbtime.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return dbtime.IsHHMM(fl.Field().String())
	})
	_ = v.RegisterValidation("uppercode", func(fl validator.FieldLevel) bool {
		return upperCodeRe.MatchString(fl.Field().String())
	})
	// gtedate=Other: this ISO date is on or after the sibling date (skipped when either is empty).
	_ = v.RegisterValidation("gtedate", func(fl validator.FieldLevel) bool {
		other, ok := siblingString(fl)
		if !ok {
			return true
		}
		a, errA := dbtime.ParseDate(fl.Field().String())
		b, errB := dbtime.ParseDate(other)
		if errA != nil || errB != nil {
			return true
		}
		return !a.Before(b)
	})
	// gttime=Other: this HH:MM is strictly after the sibling HH:MM.
	_ = v.RegisterValidation("gttime", func(fl validator.FieldLevel) bool {
		other, ok := siblingString(fl)
		if !ok {
			return true
		}
		a, errA := dbtime.ParseHHMM(fl.Field().String())
		b, errB := dbtime.ParseHHMM(other)
		if errA != nil || errB != nil {
			return true
		}
		return a > b
	})
	return &Validator{v: v}
}

func siblingString(fl validator.FieldLevel) (string, bool) {
	parent := reflect.Indirect(fl.Parent())
	if parent.Kind() != reflect.Struct {
		return "", false
	}
	f := parent.FieldByName(fl.Param())
	if !f.IsValid() {
		return "", false
	}
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return "", false
		}
		f = f.Elem()
	}
	if f.Kind() != reflect.String || strings.TrimSpace(f.String()) == "" {
		return "", false
	}
	return f.String(), true
}

// Engine exposes the underlying validator.
func (x *Validator) Engine() *validator.Validate { return x.v }

// Struct runs every rule once and returns a 400 AppError listing all failing fields.
func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return NewBadRequest("invalid input")
	}
	return NewValidation(FieldErrors(ve))
}

// FieldErrors maps validator errors to JSON field path -> messages.
func FieldErrors(ve validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := fieldPath(fe)
		out[field] = append(out[field], message(field, fe))
	}
	return out
}

// fieldPath drops the root struct name: "CreateContractRequest.pricing.basePrice" -> "pricing.basePrice".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required", "required_if", "required_with", "required_without":
		return field + " is required"
	case "uuid", "uuid4":
		return field + " must be a UUID"
	case "email":
		return field + " must be a valid email"
	case "url", "http_url":
		return field + " must be a valid URL"
	case "isodate":
		return field + " must be a date in YYYY-MM-DD format"
	case "hhmm":
		return field + " must be a time in HH:MM format"
	case "uppercode":
		return field + " may only contain A-Z, 0-9, '-' and '_'"
	case "iso4217":
		return field + " must be an ISO 4217 currency code"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.Join(strings.Fields(p), ", "))
	case "gtedate":
		return fmt.Sprintf("%s must be on or after %s", field, lowerFirst(p))
	case "gttime":
		return fmt.Sprintf("%s must be after %s", field, lowerFirst(p))
	case "min", "max", "len":
		return sizeMessage(field, fe)
	case "eq":
		return fmt.Sprintf("%s must be %s", field, p)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, p)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, p)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, p)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, p)
	case "dive", "unique":
		return field + " contains invalid or duplicate items"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

func sizeMessage(field string, fe validator.FieldError) string {
	var bound string
	switch fe.Tag() {
	case "min":
		bound = "at least"
	case "max":
		bound = "at most"
	default:
		bound = "exactly"
	}
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be %s %s characters", field, bound, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s must contain %s %s items", field, bound, fe.Param())
	default:
		return fmt.Sprintf("%s must be %s %s", field, bound, fe.Param())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

/* ===============================
   Request binding helpers
=================================*/

// BindAndValidate parses the JSON body into dst and validates it in one pass.
func BindAndValidate(c *fiber.Ctx, v *Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return NewFieldError("body", "malformed JSON body")
	}
	if n, ok := dst.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	return v.Struct(dst)
}

// BindQuery parses query parameters into dst and validates them.
func BindQuery(c *fiber.Ctx, v *Validator, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return NewFieldError("query", "malformed query parameters")
	}
	return v.Struct(dst)
}

// ParamUUID reads a path parameter that must be a UUID.
func ParamUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, NewFieldError(name, name+" must be a UUID")
	}
	return id, nil
}

// ParseOptionalUUID turns an already validated optional UUID string into a pointer.
func ParseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &id
}

// MustUUID parses a validated UUID string; callers validate first.
func MustUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(strings.TrimSpace(s))
	return id
}

// MustDate parses a validated ISO date string.
func MustDate(s string) dbtime.Date {
	d, _ := dbtime.ParseDate(s)
	return d
}

// OptionalDate parses a validated optional ISO date.
func OptionalDate(s *string) *dbtime.Date {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := dbtime.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}
