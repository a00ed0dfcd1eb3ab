// Package testsupport provides a migrated in-memory database for service tests.
package testsupport

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "cleanops_backend/internals/databases"
	userModel "cleanops_backend/internals/features/users/user/model"
)

var seq atomic.Int64

// NewDB opens a private shared-cache sqlite database with every migration applied.
// One connection only: code under test must use the transaction handle it is given.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:cleanops_test_%d?mode=memory&cache=shared", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	raw, err := db.DB()
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func Logger() *zap.Logger { return zap.NewNop() }

// CreateUser inserts an active user with the given role. The password hash is a placeholder.
func CreateUser(t *testing.T, db *gorm.DB, email, role string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     role,
		Role:         role,
		Status:       userModel.StatusActive,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}
