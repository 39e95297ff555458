package errors

import (
	"errors"
	"fmt"
	"strings"
)

// IdentityResolutionError indicates the identity graph has no usable entry
// for a user. Permanent: retrying will not help.
type IdentityResolutionError struct {
	Username string
	Reason   string
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("identity resolution failed for %q: %s", e.Username, e.Reason)
}

// NewIdentityResolutionError creates a permanent identity resolution error.
func NewIdentityResolutionError(username, reason string) *IdentityResolutionError {
	return &IdentityResolutionError{Username: username, Reason: reason}
}

// IsIdentityResolutionError reports whether err is a permanent identity
// resolution failure.
func IsIdentityResolutionError(err error) bool {
	var e *IdentityResolutionError
	return errors.As(err, &e)
}

// ExternalServiceUnavailableError indicates a transient failure reaching the
// directory, filesystem or identity graph. Callers may retry with backoff.
type ExternalServiceUnavailableError struct {
	Service string
	Err     error
}

func (e *ExternalServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *ExternalServiceUnavailableError) Unwrap() error {
	return e.Err
}

// NewExternalServiceUnavailable wraps err as a transient external service
// failure attributed to the named service.
func NewExternalServiceUnavailable(service string, err error) *ExternalServiceUnavailableError {
	return &ExternalServiceUnavailableError{Service: service, Err: err}
}

// IsExternalServiceUnavailable reports whether err is a transient external
// service failure.
func IsExternalServiceUnavailable(err error) bool {
	var e *ExternalServiceUnavailableError
	return errors.As(err, &e)
}

// DirectoryOperationError indicates a directory group mutation failed. The
// local membership record change is rolled back when this surfaces, so the
// two stores do not diverge through this path.
type DirectoryOperationError struct {
	Op     string
	Group  string
	Member string
	Err    error
}

func (e *DirectoryOperationError) Error() string {
	if e.Member != "" {
		return fmt.Sprintf("directory %s failed for group %q member %q: %v", e.Op, e.Group, e.Member, e.Err)
	}
	return fmt.Sprintf("directory %s failed for group %q: %v", e.Op, e.Group, e.Err)
}

func (e *DirectoryOperationError) Unwrap() error {
	return e.Err
}

// NewDirectoryOperationError wraps a failed directory call.
func NewDirectoryOperationError(op, group, member string, err error) *DirectoryOperationError {
	return &DirectoryOperationError{Op: op, Group: group, Member: member, Err: err}
}

// IsDirectoryOperationError reports whether err is a failed directory call.
func IsDirectoryOperationError(err error) bool {
	var e *DirectoryOperationError
	return errors.As(err, &e)
}

// CompensationFailureError indicates the rollback of a partially provisioned
// allocation itself failed. Orphaned external resources may exist; this is
// always escalated to operators and never silently swallowed.
type CompensationFailureError struct {
	Step     string
	Cause    error
	CompErr  error
	Orphaned []string
}

func (e *CompensationFailureError) Error() string {
	return fmt.Sprintf("provisioning failed at step %q (%v) and cleanup also failed (%v); manual cleanup required for: %s",
		e.Step, e.Cause, e.CompErr, strings.Join(e.Orphaned, ", "))
}

func (e *CompensationFailureError) Unwrap() error {
	return e.Cause
}

// NewCompensationFailure records a failed rollback. orphaned lists the
// external resources that may have been left behind.
func NewCompensationFailure(step string, cause, compErr error, orphaned []string) *CompensationFailureError {
	return &CompensationFailureError{Step: step, Cause: cause, CompErr: compErr, Orphaned: orphaned}
}

// IsCompensationFailure reports whether err is a failed provisioning rollback.
func IsCompensationFailure(err error) bool {
	var e *CompensationFailureError
	return errors.As(err, &e)
}
