package models

import (
	"time"

	"gorm.io/datatypes"

	"rdfstore/internal/shared/constants"
)

// AllocationModel represents the database persistence model for storage
// allocations. OwnerProfile holds a JSON snapshot of the owner's identity
// attributes as resolved at provisioning time; the live attributes are always
// re-fetched from the identity graph.
type AllocationModel struct {
	ID            uint   `gorm:"primarykey"`
	GID           uint   `gorm:"column:gid;not null;uniqueIndex:idx_allocation_gid"`
	GroupName     string `gorm:"not null;size:64;uniqueIndex:idx_allocation_group_name"`
	FilesetName   string `gorm:"not null;size:64"`
	OwnerUsername string `gorm:"not null;size:64;index:idx_allocation_owner"`
	OwnerUID      uint   `gorm:"not null"`
	Department    string `gorm:"not null;size:255"`
	Faculty       string `gorm:"size:255"`
	QuotaBytes    int64  `gorm:"not null;default:0"`
	UsedBytes     int64  `gorm:"not null;default:0"`
	Status        string `gorm:"not null;default:active;size:20;index:idx_allocation_status"`
	OwnerProfile  datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM.
func (AllocationModel) TableName() string {
	return constants.TableAllocations
}
