package models

import (
	"time"

	"rdfstore/internal/shared/constants"
)

// GIDCounterModel is the single-row table backing GID allocation. NextGID is
// advanced under a row lock so concurrent provisioning runs never observe the
// same value. GIDs handed out are never reclaimed, even when the run that
// took them fails.
type GIDCounterModel struct {
	ID        uint `gorm:"primarykey"`
	NextGID   uint `gorm:"column:next_gid;not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM.
func (GIDCounterModel) TableName() string {
	return constants.TableGIDCounter
}
