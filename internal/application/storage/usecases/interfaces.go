package usecases

import (
	"context"
	"time"

	"rdfstore/internal/domain/identity"
	"rdfstore/internal/shared/errors"
)

// DirectoryClient abstracts group and membership operations against the
// directory service. The directory is an independently writable system of
// record: implementations must treat it as such and never assume it still
// reflects this service's last write.
type DirectoryClient interface {
	// CreateGroup creates a directory group with the given name
	CreateGroup(ctx context.Context, name string) error

	// DeleteGroup removes a directory group
	DeleteGroup(ctx context.Context, name string) error

	// AddMember adds a user to a group. Adding a user who is already a
	// member is absorbed as success.
	AddMember(ctx context.Context, group, username string) error

	// RemoveMember removes a user from a group. Removing a user who is not
	// a member is absorbed as success.
	RemoveMember(ctx context.Context, group, username string) error

	// ListMembers returns the current member usernames of a group
	ListMembers(ctx context.Context, group string) ([]string, error)
}

// FilesetUsage reports current consumption for a fileset.
type FilesetUsage struct {
	UsedBytes  int64
	QuotaBytes int64
}

// FilesystemClient abstracts fileset lifecycle and quota queries against the
// distributed filesystem's administrative API.
type FilesystemClient interface {
	// CreateFileset creates a fileset owned by the given directory group
	CreateFileset(ctx context.Context, ownerGroup, name string, quotaBytes int64) error

	// DeleteFileset removes a fileset
	DeleteFileset(ctx context.Context, name string) error

	// GetUsage returns the current usage and quota for a fileset
	GetUsage(ctx context.Context, name string) (FilesetUsage, error)
}

// IdentityResolver translates a username into canonical organisational
// identity attributes. A missing or unusable entry yields a permanent
// IdentityResolutionError; transient upstream failures yield
// ExternalServiceUnavailable so callers may retry with backoff.
type IdentityResolver interface {
	Resolve(ctx context.Context, username string) (identity.Profile, error)
}

// NotificationSink delivers operator and user notifications. Fire-and-forget
// from the caller's perspective: delivery failures are logged, not retried.
type NotificationSink interface {
	SendDiscrepancyReport(report AuditReport) error
	SendCompensationAlert(failure *errors.CompensationFailureError) error
	SendAccessGranted(email, username, groupName string) error
	SendExpirationAlert(email, username, groupName string, expires time.Time) error
}

// TransactionManager runs a function inside a single database transaction so
// the final persistence step of provisioning stays atomic.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
