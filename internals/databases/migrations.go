package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	absenceModel "cleanops_backend/internals/features/absences/absence/model"
	checklistModel "cleanops_backend/internals/features/checklists/checklist/model"
	clientModel "cleanops_backend/internals/features/clients/client/model"
	siteModel "cleanops_backend/internals/features/clients/site/model"
	contractModel "cleanops_backend/internals/features/contracts/contract/model"
	interventionModel "cleanops_backend/internals/features/interventions/intervention/model"
	scheduleModel "cleanops_backend/internals/features/schedules/schedule/model"
	stockModel "cleanops_backend/internals/features/stock/stock/model"
	authModel "cleanops_backend/internals/features/users/auth/model"
	userModel "cleanops_backend/internals/features/users/user/model"
	zoneModel "cleanops_backend/internals/features/zones/zone/model"
	helper "cleanops_backend/internals/helpers"
)

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		tables("202510010001_users_auth",
			&userModel.UserModel{},
			&authModel.TokenBlacklist{},
			&helper.CodeSequence{},
		),
		tables("202510010002_clients_sites_contracts",
			&clientModel.ClientModel{},
			&siteModel.SiteModel{},
			&contractModel.ContractModel{},
		),
		tables("202510010003_zones_schedules_interventions",
			&zoneModel.ZoneModel{},
			&zoneModel.ZoneAgentModel{},
			&zoneModel.ZoneSiteModel{},
			&scheduleModel.ScheduleModel{},
			&interventionModel.InterventionModel{},
			&interventionModel.InterventionAgentModel{},
		),
		tables("202510010004_checklists",
			&checklistModel.ChecklistTemplateModel{},
			&checklistModel.ChecklistTemplateItemModel{},
			&checklistModel.ChecklistInstanceModel{},
			&checklistModel.ChecklistInstanceItemModel{},
		),
		tables("202510010005_absences_stock",
			&absenceModel.AbsenceModel{},
			&stockModel.StockItemModel{},
			&stockModel.StockMovementModel{},
		),
	}
}

// tables builds a migration that creates models and drops them in reverse on rollback.
func tables(id string, models ...any) *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: id,
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(models...)
		},
		Rollback: func(tx *gorm.DB) error {
			for i := len(models) - 1; i >= 0; i-- {
				if err := tx.Migrator().DropTable(models[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// Migrate applies every pending migration.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	return m.Migrate()
}

// RollbackLast undoes the most recent migration.
func RollbackLast(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	return m.RollbackLast()
}
