package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helperAuth "cleanops_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret           string
	BlacklistChecker func(ctx context.Context, rawToken string) (bool, error) // true when revoked
}

// AuthJWT authenticates "Authorization: Bearer <access token>"; every failure is a 401.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing bearer token")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}
		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok || strClaim(claims, "typ") != "access" || strClaim(claims, "sub") == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}

		if o.BlacklistChecker != nil {
			revoked, err := o.BlacklistChecker(c.UserContext(), raw)
			if err != nil {
				return err
			}
			if revoked {
				return fiber.NewError(fiber.StatusUnauthorized, "Token revoked")
			}
		}

		c.Locals(helperAuth.LocClaims, claims)
		c.Locals(helperAuth.LocRawToken, raw)
		c.Locals(helperAuth.LocUserID, strClaim(claims, "sub"))
		c.Locals(helperAuth.LocRole, strClaim(claims, "role"))
		c.Locals(helperAuth.LocEmail, strClaim(claims, "email"))
		return c.Next()
	}
}

func strClaim(m jwt.MapClaims, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
