package models

import (
	"time"

	"rdfstore/internal/shared/constants"
)

// GroupMembershipModel represents the database persistence model for
// allocation memberships. ExpiresAt is nullable: a NULL expiry means the
// membership is unbounded.
type GroupMembershipModel struct {
	ID           uint       `gorm:"primarykey"`
	AllocationID uint       `gorm:"not null;index:idx_membership_allocation;uniqueIndex:idx_membership_allocation_user"`
	Username     string     `gorm:"not null;size:64;uniqueIndex:idx_membership_allocation_user;index:idx_membership_username"`
	ExpiresAt    *time.Time `gorm:"index:idx_membership_expires_at"`
	CreatedAt    time.Time
}

// TableName specifies the table name for GORM.
func (GroupMembershipModel) TableName() string {
	return constants.TableGroupMemberships
}
