package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/features/users/auth/service"
)

// CleanupBlacklist is the cron job body that purges expired revoked tokens.
func CleanupBlacklist(db *gorm.DB, log *zap.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := service.PurgeExpired(ctx, db, time.Now().UTC())
		if err != nil {
			log.Error("blacklist cleanup failed", zap.Error(err))
			return
		}
		log.Info("blacklist cleanup", zap.Int64("deleted", n))
	}
}
