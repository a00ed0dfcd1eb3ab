package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNextCode_IncrementsPerPrefixAndYear(t *testing.T) {
	db := openWidgets(t, 0)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var codes []string
	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			code, err := NextCode(tx, PrefixClient, now)
			codes = append(codes, code)
			return err
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"CLI-2025-000001", "CLI-2025-000002", "CLI-2025-000003"}, codes)

	other, err := NextCode(db, PrefixContract, now)
	require.NoError(t, err)
	assert.Equal(t, "CTR-2025-000001", other)

	nextYear, err := NextCode(db, PrefixClient, now.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "CLI-2026-000001", nextYear)
}

func TestNextCode_RolledBackTransactionReleasesValue(t *testing.T) {
	db := openWidgets(t, 0)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = db.Transaction(func(tx *gorm.DB) error {
		_, err := NextCode(tx, PrefixIntervention, now)
		require.NoError(t, err)
		return assert.AnError
	})
	code, err := NextCode(db, PrefixIntervention, now)
	require.NoError(t, err)
	assert.Equal(t, "INT-2025-000001", code)
}
