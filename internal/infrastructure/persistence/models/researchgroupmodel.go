package models

import (
	"time"

	"rdfstore/internal/shared/constants"
)

// ResearchGroupModel represents the database persistence model for research
// groups.
type ResearchGroupModel struct {
	ID            uint   `gorm:"primarykey"`
	Name          string `gorm:"not null;size:128;uniqueIndex:idx_research_group_name"`
	Department    string `gorm:"not null;size:255"`
	Faculty       string `gorm:"size:255"`
	OwnerUsername string `gorm:"not null;size:64;index:idx_research_group_owner"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM.
func (ResearchGroupModel) TableName() string {
	return constants.TableResearchGroups
}
