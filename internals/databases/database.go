package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cleanops_backend/internals/configs"
)

// ConnectDB opens the Postgres pool described by cfg and verifies it with a ping.
func ConnectDB(cfg *configs.Config, log *zap.Logger) (*gorm.DB, error) {
	log.Info("connecting to postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))

	// PreferSimpleProtocol keeps PgBouncer in transaction mode happy.
	db, err := Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), log, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := TunePool(db); err != nil {
		return nil, err
	}
	log.Info("db connected")
	return db, nil
}

// Open wraps gorm.Open with the zap-backed gorm logger.
func Open(dialector gorm.Dialector, log *zap.Logger, level string) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:                 configs.NewGormLogger(log, level),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
}

func TunePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("pool tune: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// Ping is used by /health and the CLI.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
