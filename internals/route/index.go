package routes

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/configs"
	absenceRoute "cleanops_backend/internals/features/absences/absence/route"
	checklistRoute "cleanops_backend/internals/features/checklists/checklist/route"
	clientRoute "cleanops_backend/internals/features/clients/client/route"
	siteRoute "cleanops_backend/internals/features/clients/site/route"
	siteService "cleanops_backend/internals/features/clients/site/service"
	contractRoute "cleanops_backend/internals/features/contracts/contract/route"
	interventionRoute "cleanops_backend/internals/features/interventions/intervention/route"
	interventionService "cleanops_backend/internals/features/interventions/intervention/service"
	scheduleRoute "cleanops_backend/internals/features/schedules/schedule/route"
	scheduleService "cleanops_backend/internals/features/schedules/schedule/service"
	stockRoute "cleanops_backend/internals/features/stock/stock/route"
	authRoute "cleanops_backend/internals/features/users/auth/route"
	authService "cleanops_backend/internals/features/users/auth/service"
	userRoute "cleanops_backend/internals/features/users/user/route"
	zoneRoute "cleanops_backend/internals/features/zones/zone/route"
	helper "cleanops_backend/internals/helpers"
	authMiddleware "cleanops_backend/internals/middlewares/auth"
)

var startTime time.Time

// Deps carries what the feature routes need. Redis, Photos and Geocoder may be nil.
type Deps struct {
	DB       *gorm.DB
	Config   *configs.Config
	Log      *zap.Logger
	Redis    *redis.Client
	Photos   interventionService.PhotoStore
	Geocoder siteService.Geocoder
}

// SetupRoutes mounts the base routes and the /api tree.
func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	cfg, log := d.Config, d.Log
	v := helper.NewValidator()

	BaseRoutes(app, d.DB, cfg)

	auth := authService.NewAuthService(d.DB, log, authService.Options{
		Secret:        cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}, authService.NewRedisBlacklist(d.Redis))

	requireAuth := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:           cfg.JWTSecret,
		BlacklistChecker: auth.IsRevoked,
	})

	api := app.Group("/api")

	log.Debug("mounting auth routes")
	authRoute.AuthRoutes(api, requireAuth, auth, v)

	private := api.Group("", requireAuth)

	log.Debug("mounting feature routes")
	userRoute.UserRoutes(private, d.DB, v, log)
	clientRoute.ClientRoutes(private, d.DB, v, log)
	siteRoute.SiteRoutes(private, d.DB, v, log, d.Geocoder)
	contractRoute.ContractRoutes(private, d.DB, v, log)
	zoneRoute.ZoneRoutes(private, d.DB, v, log)
	scheduleRoute.ScheduleRoutes(private, d.DB, v, log, scheduleService.Options{
		Location:  cfg.Location(),
		DaysAhead: cfg.GenerationDaysAhead,
	})
	interventionRoute.InterventionRoutes(private, d.DB, v, log, d.Photos)
	checklistRoute.ChecklistRoutes(private, d.DB, v, log)
	absenceRoute.AbsenceRoutes(private, d.DB, v, log)
	stockRoute.StockRoutes(private, d.DB, v, log)

	log.Info("routes ready", zap.Int("handlers", int(app.HandlersCount())))
}
