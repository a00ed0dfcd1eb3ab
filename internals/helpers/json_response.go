package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys shared by middlewares and handlers.
const (
	LocRequestID = "reqid"
)

/* ===============================
   Error responders
=================================*/

// JsonError: generic error (not validation).
func JsonError(c *fiber.Ctx, status int, message string) error {
	return writeError(c, status, message, nil)
}

// JsonValidationError: per-field validation failures (400).
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string][]string) error {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	return writeError(c, fiber.StatusBadRequest, "Validation failed", fieldErrors)
}

/* ===============================
   Success responders
=================================*/

func okMessage(message, def string) string {
	if strings.TrimSpace(message) == "" {
		return def
	}
	return message
}

// JsonList: list with pagination.
func JsonList(c *fiber.Ctx, message string, data any, pagination Pagination) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":    true,
		"message":    okMessage(message, "ok"),
		"data":       data,
		"pagination": pagination,
	})
}

// JsonOK: generic success (GET detail, actions).
func JsonOK(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": okMessage(message, "ok"),
		"data":    data,
	})
}

// JsonCreated: POST create.
func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": okMessage(message, "created"),
		"data":    data,
	})
}

// JsonUpdated: PATCH/PUT.
func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": okMessage(message, "updated"),
		"data":    data,
	})
}

// JsonDeleted: DELETE.
func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": okMessage(message, "deleted"),
		"data":    data,
	})
}
