package identity

import "strings"

// The identity graph contains entries for non-human entities such as rooms
// and shared mailboxes. Those must never end up owning storage.
func humanEntityType(entityType string) bool {
	if entityType == "" {
		return false
	}
	if strings.Contains(entityType, "Room") || entityType == "Shared Mailbox" {
		return false
	}
	return true
}

// Eligible assesses whether a user may own or join a storage allocation.
// Only live institutional members with a complete profile qualify.
func Eligible(p Profile) bool {
	if p.UserType != "Member" {
		return false
	}
	if p.RecordStatus != "Live" {
		return false
	}
	if !humanEntityType(p.EntityType) {
		return false
	}
	if p.Email == "" || p.Name == "" || p.Department == "" {
		return false
	}
	return true
}
