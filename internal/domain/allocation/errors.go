package allocation

import "errors"

var (
	// ErrNotFound indicates the allocation does not exist
	ErrNotFound = errors.New("allocation not found")
	// ErrGIDExhausted indicates no GID is left in the configured range
	ErrGIDExhausted = errors.New("no available gid in the configured range")
	// ErrDuplicateGID indicates a GID collision, which means the counter
	// state and the allocations table disagree
	ErrDuplicateGID = errors.New("gid already assigned to another allocation")
)
