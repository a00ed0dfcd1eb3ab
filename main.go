package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"cleanops_backend/internals/configs"
	database "cleanops_backend/internals/databases"
	siteService "cleanops_backend/internals/features/clients/site/service"
	scheduleService "cleanops_backend/internals/features/schedules/schedule/service"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/helpers/media"
	middlewares "cleanops_backend/internals/middlewares"
	routes "cleanops_backend/internals/route"
	"cleanops_backend/internals/scheduler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		return err
	}

	log, err := configs.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.AppName)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.ErrorHandler(log),
		BodyLimit:             media.MaxUploadBytes + 2*1024*1024,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	middlewares.SetupMiddlewares(app, cfg.CORSOrigins, log)

	// DB connect + migrations
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := database.NewRedis(context.Background(), cfg)
	if err != nil {
		// the blacklist falls back to the database
		log.Warn("redis unavailable", zap.Error(err))
	}

	// scheduler after DB is ready
	schedules := scheduleService.NewScheduleService(db, log, scheduleService.Options{
		Location:  cfg.Location(),
		DaysAhead: cfg.GenerationDaysAhead,
	})
	cron, err := scheduler.Start(cfg.MaintenanceCron, cfg.Location(), log,
		scheduler.MaintenanceJobs(db, log, schedules, cfg.GenerationDaysAhead))
	if err != nil {
		return err
	}

	routes.SetupRoutes(app, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Redis:    rdb,
		Photos:   media.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL),
		Geocoder: siteService.NewGeocoder(cfg.GeocodingURL, cfg.GeocodingAPIKey, log),
	})

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		errc <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	// graceful shutdown: stop cron, drain HTTP, close pools
	if cron != nil {
		<-cron.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
