package allocation

import "context"

// Repository defines the interface for allocation persistence operations
type Repository interface {
	// Create persists a new allocation
	Create(ctx context.Context, alloc *Allocation) error

	// Update persists changes to an existing allocation
	Update(ctx context.Context, alloc *Allocation) error

	// GetByID retrieves an allocation by ID, nil if not found
	GetByID(ctx context.Context, id uint) (*Allocation, error)

	// GetByGID retrieves an allocation by GID, nil if not found
	GetByGID(ctx context.Context, gid uint) (*Allocation, error)

	// ListActive retrieves all active allocations. When ids is non-empty the
	// result is restricted to that subset, which supports partial job runs.
	ListActive(ctx context.Context, ids []uint) ([]*Allocation, error)

	// List retrieves allocations with optional filters
	List(ctx context.Context, filter ListFilter) ([]*Allocation, int64, error)
}

// ListFilter defines the filter options for listing allocations
type ListFilter struct {
	Status   *Status
	Owner    string
	Page     int
	PageSize int
}

// GIDAllocator hands out group identifiers. Implementations must serialize
// Next so the same GID is never issued twice, including under concurrent
// provisioning requests. GIDs are never reclaimed.
type GIDAllocator interface {
	Next(ctx context.Context) (uint, error)
}
