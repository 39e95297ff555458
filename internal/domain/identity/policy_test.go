package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProfile() Profile {
	return Profile{
		Username:     "jdoe",
		Name:         "Jane Doe",
		Email:        "jdoe@example.ac.uk",
		Department:   "Computing",
		Faculty:      "Engineering",
		UserType:     "Member",
		EntityType:   "Staff",
		RecordStatus: "Live",
		UID:          40123,
	}
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
		want   bool
	}{
		{
			name:   "complete member profile",
			mutate: func(p *Profile) {},
			want:   true,
		},
		{
			name:   "non member user type",
			mutate: func(p *Profile) { p.UserType = "Guest" },
			want:   false,
		},
		{
			name:   "record not live",
			mutate: func(p *Profile) { p.RecordStatus = "Left" },
			want:   false,
		},
		{
			name:   "room entity",
			mutate: func(p *Profile) { p.EntityType = "Meeting Room" },
			want:   false,
		},
		{
			name:   "shared mailbox entity",
			mutate: func(p *Profile) { p.EntityType = "Shared Mailbox" },
			want:   false,
		},
		{
			name:   "empty entity type",
			mutate: func(p *Profile) { p.EntityType = "" },
			want:   false,
		},
		{
			name:   "missing email",
			mutate: func(p *Profile) { p.Email = "" },
			want:   false,
		},
		{
			name:   "missing name",
			mutate: func(p *Profile) { p.Name = "" },
			want:   false,
		},
		{
			name:   "missing department",
			mutate: func(p *Profile) { p.Department = "" },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			assert.Equal(t, tt.want, Eligible(p))
		})
	}
}
