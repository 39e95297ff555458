// Package allocation provides the domain model for provisioned storage grants.
package allocation

import (
	"fmt"
	"time"
)

// GroupNamePrefix is prepended to the GID to form the directory group name.
const GroupNamePrefix = "rdf-"

// Status represents the lifecycle status of an allocation
type Status string

const (
	// StatusActive indicates the allocation is live and synced by the jobs
	StatusActive Status = "active"
	// StatusInactive indicates the allocation has been administratively disabled
	StatusInactive Status = "inactive"
	// StatusExpired indicates the allocation passed its end date
	StatusExpired Status = "expired"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusExpired
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Allocation is the aggregate root for a provisioned storage grant. It links
// a unique GID, the directory group named after it, and the GPFS fileset
// owned by that group. Allocations are never deleted, only deactivated.
type Allocation struct {
	id            uint
	gid           uint
	groupName     string
	filesetName   string
	ownerUsername string
	ownerUID      uint
	department    string
	faculty       string
	quotaBytes    int64
	usedBytes     int64
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

// GroupNameForGID returns the deterministic directory group name for a GID.
func GroupNameForGID(gid uint) string {
	return fmt.Sprintf("%s%d", GroupNamePrefix, gid)
}

// NewAllocation creates a new active allocation. The directory group and
// fileset names are derived from the GID and are immutable thereafter.
func NewAllocation(gid uint, ownerUsername string, ownerUID uint, department, faculty string, quotaBytes int64) (*Allocation, error) {
	if gid == 0 {
		return nil, fmt.Errorf("gid is required")
	}
	if ownerUsername == "" {
		return nil, fmt.Errorf("owner username is required")
	}
	if department == "" {
		return nil, fmt.Errorf("department is required")
	}
	if quotaBytes <= 0 {
		return nil, fmt.Errorf("quota must be positive")
	}

	name := GroupNameForGID(gid)
	now := time.Now()
	return &Allocation{
		gid:           gid,
		groupName:     name,
		filesetName:   name,
		ownerUsername: ownerUsername,
		ownerUID:      ownerUID,
		department:    department,
		faculty:       faculty,
		quotaBytes:    quotaBytes,
		status:        StatusActive,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructAllocation reconstructs an allocation from persistence.
func ReconstructAllocation(
	id uint,
	gid uint,
	groupName string,
	filesetName string,
	ownerUsername string,
	ownerUID uint,
	department string,
	faculty string,
	quotaBytes int64,
	usedBytes int64,
	status string,
	createdAt, updatedAt time.Time,
) (*Allocation, error) {
	if id == 0 {
		return nil, fmt.Errorf("allocation ID cannot be zero")
	}
	if gid == 0 {
		return nil, fmt.Errorf("gid is required")
	}
	if groupName == "" {
		return nil, fmt.Errorf("group name is required")
	}

	allocStatus := Status(status)
	if !allocStatus.IsValid() {
		return nil, fmt.Errorf("invalid allocation status: %s", status)
	}

	return &Allocation{
		id:            id,
		gid:           gid,
		groupName:     groupName,
		filesetName:   filesetName,
		ownerUsername: ownerUsername,
		ownerUID:      ownerUID,
		department:    department,
		faculty:       faculty,
		quotaBytes:    quotaBytes,
		usedBytes:     usedBytes,
		status:        allocStatus,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// ID returns the allocation ID
func (a *Allocation) ID() uint {
	return a.id
}

// GID returns the unique numeric group identifier
func (a *Allocation) GID() uint {
	return a.gid
}

// GroupName returns the directory group name
func (a *Allocation) GroupName() string {
	return a.groupName
}

// FilesetName returns the GPFS fileset name
func (a *Allocation) FilesetName() string {
	return a.filesetName
}

// OwnerUsername returns the owning user's username
func (a *Allocation) OwnerUsername() string {
	return a.ownerUsername
}

// OwnerUID returns the owner's numeric user identifier
func (a *Allocation) OwnerUID() uint {
	return a.ownerUID
}

// Department returns the department metadata
func (a *Allocation) Department() string {
	return a.department
}

// Faculty returns the faculty metadata
func (a *Allocation) Faculty() string {
	return a.faculty
}

// QuotaBytes returns the allocated quota in bytes
func (a *Allocation) QuotaBytes() int64 {
	return a.quotaBytes
}

// UsedBytes returns the last synced usage in bytes
func (a *Allocation) UsedBytes() int64 {
	return a.usedBytes
}

// Status returns the allocation status
func (a *Allocation) Status() Status {
	return a.status
}

// CreatedAt returns when the allocation was created
func (a *Allocation) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the allocation was last updated
func (a *Allocation) UpdatedAt() time.Time {
	return a.updatedAt
}

// IsActive reports whether the allocation is active
func (a *Allocation) IsActive() bool {
	return a.status == StatusActive
}

// SetID sets the allocation ID (only for persistence layer use)
func (a *Allocation) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("allocation ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("allocation ID cannot be zero")
	}
	a.id = id
	return nil
}

// UpdateUsage records usage figures reported by the filesystem. The quota is
// taken from the filesystem too since quota changes are applied there first.
func (a *Allocation) UpdateUsage(usedBytes, quotaBytes int64) error {
	if usedBytes < 0 {
		return fmt.Errorf("used bytes cannot be negative")
	}
	a.usedBytes = usedBytes
	if quotaBytes > 0 {
		a.quotaBytes = quotaBytes
	}
	a.updatedAt = time.Now()
	return nil
}

// Deactivate marks the allocation inactive. The GID stays reserved.
func (a *Allocation) Deactivate() {
	if a.status == StatusInactive {
		return
	}
	a.status = StatusInactive
	a.updatedAt = time.Now()
}

// Expire marks the allocation expired. The GID stays reserved.
func (a *Allocation) Expire() {
	if a.status == StatusExpired {
		return
	}
	a.status = StatusExpired
	a.updatedAt = time.Now()
}
