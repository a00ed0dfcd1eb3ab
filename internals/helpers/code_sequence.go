package helper

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Code prefixes for generated business codes.
const (
	PrefixClient       = "CLI"
	PrefixContract     = "CTR"
	PrefixIntervention = "INT"
)

// CodeSequence is one yearly counter per prefix ("CTR-2025").
type CodeSequence struct {
	Name      string    `gorm:"column:name;size:32;primaryKey"`
	Value     int64     `gorm:"column:value;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CodeSequence) TableName() string { return "code_sequences" }

// NextCode reserves the next "<PREFIX>-<YYYY>-<NNNNNN>" value.
// Call it inside the transaction that inserts the row: the UPDATE holds the row lock until commit.
func NextCode(tx *gorm.DB, prefix string, now time.Time) (string, error) {
	name := fmt.Sprintf("%s-%d", prefix, now.Year())

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&CodeSequence{Name: name}).Error; err != nil {
		return "", fmt.Errorf("init sequence %s: %w", name, err)
	}
	if err := tx.Model(&CodeSequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1")).Error; err != nil {
		return "", fmt.Errorf("bump sequence %s: %w", name, err)
	}
	var seq CodeSequence
	if err := tx.Where("name = ?", name).Take(&seq).Error; err != nil {
		return "", fmt.Errorf("read sequence %s: %w", name, err)
	}
	return fmt.Sprintf("%s-%06d", name, seq.Value), nil
}
