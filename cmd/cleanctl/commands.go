package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cleanops_backend/internals/configs"
	database "cleanops_backend/internals/databases"
	scheduleService "cleanops_backend/internals/features/schedules/schedule/service"
	userDTO "cleanops_backend/internals/features/users/user/dto"
	userModel "cleanops_backend/internals/features/users/user/model"
	userService "cleanops_backend/internals/features/users/user/service"
	helper "cleanops_backend/internals/helpers"
	"cleanops_backend/internals/scheduler"
)

// env bundles what every command needs.
type env struct {
	cfg *configs.Config
	log *zap.Logger
	db  *gorm.DB
}

func open(c *cli.Command) (*env, func(), error) {
	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := configs.NewLogger(c.String("log-level"), "console", "cleanctl")
	if err != nil {
		return nil, nil, err
	}
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = log.Sync()
	}
	return &env{cfg: cfg, log: log, db: db}, closeFn, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rollback", Usage: "roll back the last migration instead"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, done, err := open(c)
			if err != nil {
				return err
			}
			defer done()
			if c.Bool("rollback") {
				if err := database.RollbackLast(e.db); err != nil {
					return err
				}
				e.log.Info("rolled back last migration")
				return nil
			}
			if err := database.Migrate(e.db); err != nil {
				return err
			}
			e.log.Info("migrations applied")
			return nil
		},
	}
}

func seedAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed-admin",
		Usage: "Create the first ADMIN account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("CLEANOPS_ADMIN_PASSWORD")},
			&cli.StringFlag{Name: "first-name", Value: "Admin"},
			&cli.StringFlag{Name: "last-name", Value: "Cleanops"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, done, err := open(c)
			if err != nil {
				return err
			}
			defer done()
			u, err := seedAdmin(ctx, e.db, e.log, userDTO.CreateUserRequest{
				Email:     c.String("email"),
				Password:  c.String("password"),
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
			})
			if err != nil {
				return err
			}
			fmt.Printf("admin %s created (%s)\n", u.Email, u.ID)
			return nil
		},
	}
}

// seedAdmin validates req and creates it with the ADMIN role.
func seedAdmin(ctx context.Context, db *gorm.DB, log *zap.Logger, req userDTO.CreateUserRequest) (*userModel.UserModel, error) {
	req.Role = userModel.RoleAdmin
	req.Status = userModel.StatusActive
	req.Normalize()
	if err := helper.NewValidator().Struct(&req); err != nil {
		return nil, err
	}
	return userService.NewUserService(db, log).Create(ctx, req)
}

func checkDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "check-db",
		Usage: "Check that the configured Postgres is reachable",
		Action: func(ctx context.Context, c *cli.Command) error {
			configs.LoadEnv()
			cfg, err := configs.Load()
			if err != nil {
				return err
			}
			return checkDB(ctx, "postgres", cfg.DSN())
		},
	}
}

// checkDB pings the server through a plain database/sql pool and prints its version.
func checkDB(ctx context.Context, driver, dsn string) error {
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var version string
	if err := sqlDB.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("check db: %w", err)
	}
	fmt.Println(version)
	return nil
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate interventions for every active schedule",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Value: 0, Usage: "horizon in days (default GENERATION_DAYS_AHEAD)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			e, done, err := open(c)
			if err != nil {
				return err
			}
			defer done()
			days := int(c.Int("days"))
			if days <= 0 {
				days = e.cfg.GenerationDaysAhead
			}
			svc := scheduleService.NewScheduleService(e.db, e.log, scheduleService.Options{
				Location:  e.cfg.Location(),
				DaysAhead: days,
			})
			n, created, err := svc.GenerateAll(ctx, days)
			if err != nil {
				return err
			}
			fmt.Printf("%d schedule(s), %d intervention(s) created\n", n, created)
			return nil
		},
	}
}

func maintenanceCommand() *cli.Command {
	return &cli.Command{
		Name:  "maintenance",
		Usage: "Run the nightly maintenance jobs once",
		Action: func(ctx context.Context, c *cli.Command) error {
			e, done, err := open(c)
			if err != nil {
				return err
			}
			defer done()
			svc := scheduleService.NewScheduleService(e.db, e.log, scheduleService.Options{
				Location:  e.cfg.Location(),
				DaysAhead: e.cfg.GenerationDaysAhead,
			})
			jobs := scheduler.MaintenanceJobs(e.db, e.log, svc, e.cfg.GenerationDaysAhead)
			if failed := scheduler.RunAll(ctx, e.log, jobs); failed > 0 {
				return fmt.Errorf("%d maintenance job(s) failed", failed)
			}
			return nil
		},
	}
}
