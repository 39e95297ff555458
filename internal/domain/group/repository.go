package group

import (
	"context"
	"time"
)

// Repository defines the interface for research group persistence operations
type Repository interface {
	// Create persists a new research group
	Create(ctx context.Context, grp *ResearchGroup) error

	// GetByID retrieves a research group by ID, nil if not found
	GetByID(ctx context.Context, id uint) (*ResearchGroup, error)

	// GetByName retrieves a research group by name, nil if not found
	GetByName(ctx context.Context, name string) (*ResearchGroup, error)

	// ExistsByName checks if a research group with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// MembershipRepository defines the interface for membership record persistence
type MembershipRepository interface {
	// Create persists a new membership record
	Create(ctx context.Context, m *Membership) error

	// Delete removes a membership record
	Delete(ctx context.Context, id uint) error

	// Get retrieves the membership for a user on an allocation, nil if absent
	Get(ctx context.Context, allocationID uint, username string) (*Membership, error)

	// ListByAllocation retrieves all membership records for an allocation
	ListByAllocation(ctx context.Context, allocationID uint) ([]*Membership, error)

	// ListExpiringOn retrieves memberships whose expiration date falls on
	// the given calendar day, used for expiry notifications
	ListExpiringOn(ctx context.Context, day time.Time) ([]*Membership, error)
}
