package group

import "errors"

var (
	// ErrNotFound indicates the research group does not exist
	ErrNotFound = errors.New("research group not found")
	// ErrMembershipNotFound indicates no membership record exists
	ErrMembershipNotFound = errors.New("membership record not found")
	// ErrAlreadyMember indicates a membership record already exists
	ErrAlreadyMember = errors.New("user is already a member")
	// ErrGroupNameTaken indicates the group name is already in use
	ErrGroupNameTaken = errors.New("group name already in use")
)
