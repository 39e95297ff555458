package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/domain/group"
)

func TestResearchGroupRepository_CreateAndGet(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewResearchGroupRepository(gdb)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		grp, err := group.NewResearchGroup("hpc-lab", "Engineering", "Faculty of Engineering", "u1")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, grp))
		assert.NotZero(t, grp.ID())

		found, err := repo.GetByName(ctx, "hpc-lab")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "hpc-lab", found.Name())
		assert.Equal(t, "u1", found.OwnerUsername())
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		dup, err := group.NewResearchGroup("hpc-lab", "Physics", "", "u2")
		require.NoError(t, err)
		err = repo.Create(ctx, dup)
		assert.ErrorIs(t, err, group.ErrGroupNameTaken)
	})

	t.Run("exists by name", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "hpc-lab")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, "no-such-group")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
