package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"

	"cleanops_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the global middleware chain.
func SetupMiddlewares(app *fiber.App, corsOrigins []string, log *zap.Logger) {
	app.Use(RecoveryMiddleware(log))
	app.Use(logger.RequestLogger(log, 10*time.Second))
	app.Use(CorsMiddleware(corsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
