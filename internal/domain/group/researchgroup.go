// Package group provides the domain model for research groups and their
// membership records. Membership records are the intended source of truth
// that the directory group's actual membership must converge to.
package group

import (
	"fmt"
	"time"
)

// ResearchGroup is an administrative grouping of users and allocations,
// distinct from the directory group mirroring an allocation's membership.
type ResearchGroup struct {
	id            uint
	name          string
	department    string
	faculty       string
	ownerUsername string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewResearchGroup creates a new research group.
func NewResearchGroup(name, department, faculty, ownerUsername string) (*ResearchGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}
	if len(name) > 255 {
		return nil, fmt.Errorf("group name is too long (max 255 characters)")
	}
	if ownerUsername == "" {
		return nil, fmt.Errorf("owner username is required")
	}

	now := time.Now()
	return &ResearchGroup{
		name:          name,
		department:    department,
		faculty:       faculty,
		ownerUsername: ownerUsername,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructResearchGroup reconstructs a research group from persistence.
func ReconstructResearchGroup(id uint, name, department, faculty, ownerUsername string, createdAt, updatedAt time.Time) (*ResearchGroup, error) {
	if id == 0 {
		return nil, fmt.Errorf("group ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}
	return &ResearchGroup{
		id:            id,
		name:          name,
		department:    department,
		faculty:       faculty,
		ownerUsername: ownerUsername,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// ID returns the group ID
func (g *ResearchGroup) ID() uint {
	return g.id
}

// Name returns the group name
func (g *ResearchGroup) Name() string {
	return g.name
}

// Department returns the department
func (g *ResearchGroup) Department() string {
	return g.department
}

// Faculty returns the faculty
func (g *ResearchGroup) Faculty() string {
	return g.faculty
}

// OwnerUsername returns the owning user's username
func (g *ResearchGroup) OwnerUsername() string {
	return g.ownerUsername
}

// CreatedAt returns when the group was created
func (g *ResearchGroup) CreatedAt() time.Time {
	return g.createdAt
}

// UpdatedAt returns when the group was last updated
func (g *ResearchGroup) UpdatedAt() time.Time {
	return g.updatedAt
}

// SetID sets the group ID (only for persistence layer use)
func (g *ResearchGroup) SetID(id uint) error {
	if g.id != 0 {
		return fmt.Errorf("group ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("group ID cannot be zero")
	}
	g.id = id
	return nil
}
