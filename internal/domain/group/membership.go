package group

import (
	"fmt"
	"time"
)

// Membership relates a user to an allocation's directory group. The set of
// memberships for an allocation is what the directory must converge to.
type Membership struct {
	id           uint
	allocationID uint
	username     string
	expiresAt    time.Time
	createdAt    time.Time
}

// NewMembership creates a membership record for an allocation.
func NewMembership(allocationID uint, username string, expiresAt time.Time) (*Membership, error) {
	if allocationID == 0 {
		return nil, fmt.Errorf("allocation ID is required")
	}
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if !expiresAt.IsZero() && expiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("expiration date is in the past")
	}
	return &Membership{
		allocationID: allocationID,
		username:     username,
		expiresAt:    expiresAt,
		createdAt:    time.Now(),
	}, nil
}

// ReconstructMembership reconstructs a membership from persistence.
func ReconstructMembership(id, allocationID uint, username string, expiresAt, createdAt time.Time) (*Membership, error) {
	if id == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if allocationID == 0 {
		return nil, fmt.Errorf("allocation ID is required")
	}
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	return &Membership{
		id:           id,
		allocationID: allocationID,
		username:     username,
		expiresAt:    expiresAt,
		createdAt:    createdAt,
	}, nil
}

// ID returns the membership ID
func (m *Membership) ID() uint {
	return m.id
}

// AllocationID returns the allocation this membership belongs to
func (m *Membership) AllocationID() uint {
	return m.allocationID
}

// Username returns the member's username
func (m *Membership) Username() string {
	return m.username
}

// ExpiresAt returns the membership expiration date, zero if unbounded
func (m *Membership) ExpiresAt() time.Time {
	return m.expiresAt
}

// CreatedAt returns when the membership was recorded
func (m *Membership) CreatedAt() time.Time {
	return m.createdAt
}

// SetID sets the membership ID (only for persistence layer use)
func (m *Membership) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("membership ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("membership ID cannot be zero")
	}
	m.id = id
	return nil
}

// Extend pushes the expiration date out by the given number of days.
func (m *Membership) Extend(days int) error {
	if days < 1 {
		return fmt.Errorf("extension must be at least one day")
	}
	base := m.expiresAt
	if base.IsZero() {
		base = time.Now()
	}
	m.expiresAt = base.AddDate(0, 0, days)
	return nil
}
