package helper

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

/* ===============================
   Domain errors
=================================*/

// AppError is an error that knows its HTTP status.
type AppError struct {
	Status  int
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewNotFound(entity string, id any) *AppError {
	return &AppError{Status: fiber.StatusNotFound, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

func NewBadRequest(format string, args ...any) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...any) *AppError {
	return &AppError{Status: fiber.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

func NewForbidden(msg string) *AppError {
	return &AppError{Status: fiber.StatusForbidden, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Status: fiber.StatusUnauthorized, Message: msg}
}

// NewValidation carries per-field messages keyed by JSON field path.
func NewValidation(fields map[string][]string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Message: "Validation failed", Fields: fields}
}

// NewFieldError is a one-field validation failure.
func NewFieldError(field, msg string) *AppError {
	return NewValidation(map[string][]string{field: {msg}})
}

func NewInvalidTransition(entity, from, to string) *AppError {
	return NewConflict("cannot transition %s from %s to %s", entity, from, to)
}

// StatusOf extracts the HTTP status carried by err, 500 when unknown.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "23505")
}

/* ===============================
   Fiber error handler
=================================*/

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Error      string              `json:"error"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

// ErrorHandler renders every error returned by a handler or middleware.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			ae *AppError
			fe *fiber.Error
		)
		switch {
		case errors.As(err, &ae):
			if ae.Status >= 500 {
				logInternal(log, c, err)
			}
			return writeError(c, ae.Status, ae.Message, ae.Fields)
		case errors.As(err, &fe):
			return writeError(c, fe.Code, fe.Message, nil)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return writeError(c, fiber.StatusNotFound, "resource not found", nil)
		case IsUniqueViolation(err):
			return writeError(c, fiber.StatusConflict, "resource already exists", nil)
		default:
			logInternal(log, c, err)
			return writeError(c, fiber.StatusInternalServerError, "internal server error", nil)
		}
	}
}

func logInternal(log *zap.Logger, c *fiber.Ctx, err error) {
	if log == nil {
		return
	}
	reqID, _ := c.Locals(LocRequestID).(string)
	log.Error("request failed",
		zap.String("request_id", reqID),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
}

func writeError(c *fiber.Ctx, status int, message string, fields map[string][]string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(status)
	}
	return c.Status(status).JSON(ErrorBody{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
		Errors:     fields,
	})
}
