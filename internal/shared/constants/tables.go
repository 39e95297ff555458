// Package constants defines shared constant values used across layers.
package constants

// Database table names.
const (
	TableAllocations      = "allocations"
	TableResearchGroups   = "research_groups"
	TableGroupMemberships = "group_memberships"
	TableGIDCounter       = "gid_counter"
)
