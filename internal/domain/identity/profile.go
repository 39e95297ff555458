// Package identity provides canonical organisational identity attributes and
// the eligibility policy applied before provisioning.
package identity

// Profile holds the canonical identity attributes for a user as reported by
// the institutional identity graph. Profiles are resolved fresh for every
// provisioning operation; they are never cached across operations because
// identity data changes and staleness must not leak into allocation metadata.
type Profile struct {
	Username     string
	Name         string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	Faculty      string
	JobTitle     string
	JobFamily    string
	UserType     string
	EntityType   string
	RecordStatus string
	UID          uint
}
