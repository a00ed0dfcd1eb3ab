// Package scheduler runs the nightly maintenance jobs on a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authScheduler "cleanops_backend/internals/features/users/auth/scheduler"
	scheduleService "cleanops_backend/internals/features/schedules/schedule/service"
)

// Job is one named maintenance step.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// zapCron adapts zap to cron.Logger.
type zapCron struct{ s *zap.SugaredLogger }

func (l zapCron) Info(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l zapCron) Error(err error, msg string, kv ...interface{}) {
	l.s.Errorw(msg, append(kv, "error", err)...)
}

// MaintenanceJobs returns the jobs run on every tick, in order.
func MaintenanceJobs(db *gorm.DB, log *zap.Logger, schedules *scheduleService.ScheduleService, daysAhead int) []Job {
	return []Job{
		{Name: "complete-expired-schedules", Run: func(ctx context.Context) error {
			n, err := schedules.CompleteExpired(ctx)
			if err == nil {
				log.Info("expired schedules completed", zap.Int64("count", n))
			}
			return err
		}},
		{Name: "generate-interventions", Run: func(ctx context.Context) error {
			n, created, err := schedules.GenerateAll(ctx, daysAhead)
			if err == nil {
				log.Info("interventions generated", zap.Int("schedules", n), zap.Int("created", created))
			}
			return err
		}},
		{Name: "purge-token-blacklist", Run: func(ctx context.Context) error {
			authScheduler.CleanupBlacklist(db, log)()
			return nil
		}},
	}
}

// RunAll executes jobs one after another; a failing job is logged and does not stop the rest.
func RunAll(ctx context.Context, log *zap.Logger, jobs []Job) int {
	failed := 0
	for _, j := range jobs {
		start := time.Now()
		if err := j.Run(ctx); err != nil {
			failed++
			log.Error("maintenance job failed", zap.String("job", j.Name), zap.Error(err))
			continue
		}
		log.Debug("maintenance job done", zap.String("job", j.Name), zap.Duration("took", time.Since(start)))
	}
	return failed
}

// Start registers jobs on spec and starts the cron runner. Overlapping ticks are skipped.
// An empty spec disables the scheduler and returns nil.
func Start(spec string, loc *time.Location, log *zap.Logger, jobs []Job) (*cron.Cron, error) {
	if spec == "" {
		log.Info("maintenance scheduler disabled")
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	cl := zapCron{s: log.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		RunAll(ctx, log, jobs)
	})
	if err != nil {
		return nil, fmt.Errorf("maintenance cron %q: %w", spec, err)
	}
	c.Start()
	log.Info("maintenance scheduler started", zap.String("spec", spec), zap.String("tz", loc.String()))
	return c, nil
}
