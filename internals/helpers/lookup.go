package helper

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnsureExists fails with 404 unless a live (not soft-deleted) row with id exists.
func EnsureExists(tx *gorm.DB, model any, id uuid.UUID, entity string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %s: %w", entity, err)
	}
	if n == 0 {
		return NewNotFound(entity, id)
	}
	return nil
}

// FindLive loads a non-deleted row or returns 404.
func FindLive[T any](tx *gorm.DB, id uuid.UUID, entity string) (*T, error) {
	var m T
	if err := tx.Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound(entity, id)
		}
		return nil, fmt.Errorf("load %s: %w", entity, err)
	}
	return &m, nil
}

// FindAny loads a row including soft-deleted ones (tombstones stay readable by id).
func FindAny[T any](tx *gorm.DB, id uuid.UUID, entity string) (*T, error) {
	return FindLive[T](tx.Unscoped(), id, entity)
}
