package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cleanops_backend/internals/configs"
	database "cleanops_backend/internals/databases"
)

// BaseRoutes registers the unauthenticated root, health and uploads endpoints.
func BaseRoutes(app *fiber.App, db *gorm.DB, cfg *configs.Config) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": cfg.AppName, "status": "ok"})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		serverStatus := "ok"
		httpStatus := fiber.StatusOK

		if err := database.Ping(c.UserContext(), db); err != nil {
			dbStatus = "unreachable"
			serverStatus = "down"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().UTC().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})

	if cfg.UploadDir != "" {
		app.Static("/uploads", cfg.UploadDir, fiber.Static{MaxAge: 3600})
	}
}
