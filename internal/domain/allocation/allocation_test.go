package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllocation(t *testing.T) {
	alloc, err := NewAllocation(1001, "u1", 40123, "Engineering", "Faculty of Engineering", 500*1000*1000*1000)
	require.NoError(t, err)

	assert.Equal(t, uint(1001), alloc.GID())
	assert.Equal(t, "rdf-1001", alloc.GroupName())
	assert.Equal(t, "rdf-1001", alloc.FilesetName())
	assert.Equal(t, "u1", alloc.OwnerUsername())
	assert.Equal(t, StatusActive, alloc.Status())
	assert.True(t, alloc.IsActive())
	assert.Zero(t, alloc.UsedBytes())
}

func TestNewAllocation_Validation(t *testing.T) {
	tests := []struct {
		name       string
		gid        uint
		owner      string
		department string
		quota      int64
	}{
		{"zero gid", 0, "u1", "Engineering", 1},
		{"missing owner", 1001, "", "Engineering", 1},
		{"missing department", 1001, "u1", "", 1},
		{"zero quota", 1001, "u1", "Engineering", 0},
		{"negative quota", 1001, "u1", "Engineering", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAllocation(tt.gid, tt.owner, 1, tt.department, "", tt.quota)
			assert.Error(t, err)
		})
	}
}

func TestAllocation_UpdateUsage(t *testing.T) {
	alloc, err := NewAllocation(1001, "u1", 40123, "Engineering", "", 100)
	require.NoError(t, err)

	require.NoError(t, alloc.UpdateUsage(42, 100))
	assert.Equal(t, int64(42), alloc.UsedBytes())
	assert.Equal(t, int64(100), alloc.QuotaBytes())

	// quota of zero from upstream must not wipe the stored quota
	require.NoError(t, alloc.UpdateUsage(50, 0))
	assert.Equal(t, int64(100), alloc.QuotaBytes())

	assert.Error(t, alloc.UpdateUsage(-1, 100))
}

func TestAllocation_StatusTransitions(t *testing.T) {
	alloc, err := NewAllocation(1001, "u1", 40123, "Engineering", "", 100)
	require.NoError(t, err)

	alloc.Deactivate()
	assert.Equal(t, StatusInactive, alloc.Status())
	assert.False(t, alloc.IsActive())

	alloc.Expire()
	assert.Equal(t, StatusExpired, alloc.Status())
}

func TestReconstructAllocation_InvalidStatus(t *testing.T) {
	now := time.Now()
	_, err := ReconstructAllocation(1, 1001, "rdf-1001", "rdf-1001", "u1", 40123, "Engineering", "", 100, 0, "bogus", now, now)
	assert.Error(t, err)
}

func TestGroupNameForGID(t *testing.T) {
	assert.Equal(t, "rdf-1001", GroupNameForGID(1001))
}
