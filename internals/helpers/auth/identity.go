package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helper "cleanops_backend/internals/helpers"
)

// Locals keys filled by the JWT middleware.
const (
	LocUserID   = "user_id"
	LocRole     = "role"
	LocEmail    = "email"
	LocRawToken = "raw_token"
	LocClaims   = "jwt_claims"
)

// Roles.
const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleSupervisor = "SUPERVISOR"
	RoleAgent      = "AGENT"
)

// GetUserID returns the authenticated user's id.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	s, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, helper.NewUnauthorized("missing user identity")
	}
	return id, nil
}

// GetRole returns the authenticated user's role, "" when absent.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocRole).(string)
	return strings.ToUpper(strings.TrimSpace(s))
}

func HasRole(c *fiber.Ctx, roles ...string) bool {
	role := GetRole(c)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// RawToken is the bearer token of the current request.
func RawToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocRawToken).(string)
	return s
}
