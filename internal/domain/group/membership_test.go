package group

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMembership(t *testing.T) {
	expiry := time.Now().AddDate(1, 0, 0)
	m, err := NewMembership(7, "jdoe", expiry)
	require.NoError(t, err)

	assert.Equal(t, uint(7), m.AllocationID())
	assert.Equal(t, "jdoe", m.Username())
	assert.Equal(t, expiry, m.ExpiresAt())
}

func TestNewMembership_Validation(t *testing.T) {
	_, err := NewMembership(0, "jdoe", time.Time{})
	assert.Error(t, err)

	_, err = NewMembership(7, "", time.Time{})
	assert.Error(t, err)

	_, err = NewMembership(7, "jdoe", time.Now().AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestMembership_Extend(t *testing.T) {
	expiry := time.Now().AddDate(0, 0, 10)
	m, err := NewMembership(7, "jdoe", expiry)
	require.NoError(t, err)

	require.NoError(t, m.Extend(5))
	assert.Equal(t, expiry.AddDate(0, 0, 5), m.ExpiresAt())

	assert.Error(t, m.Extend(0))
}

func TestNewResearchGroup(t *testing.T) {
	grp, err := NewResearchGroup("photonics", "Physics", "Natural Sciences", "pi1")
	require.NoError(t, err)
	assert.Equal(t, "photonics", grp.Name())
	assert.Equal(t, "pi1", grp.OwnerUsername())

	_, err = NewResearchGroup("", "Physics", "", "pi1")
	assert.Error(t, err)

	_, err = NewResearchGroup("photonics", "Physics", "", "")
	assert.Error(t, err)
}
