package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/domain/group"
	"rdfstore/internal/shared/db"
)

func TestGroupMembershipRepository_CreateAndGet(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewGroupMembershipRepository(gdb)
	ctx := context.Background()

	t.Run("round trip with unbounded expiry", func(t *testing.T) {
		m, err := group.NewMembership(1, "u2", time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, m))
		assert.NotZero(t, m.ID())

		found, err := repo.Get(ctx, 1, "u2")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.ExpiresAt().IsZero())
	})

	t.Run("round trip with expiry date", func(t *testing.T) {
		expires := time.Now().AddDate(0, 6, 0).Truncate(time.Second)
		m, err := group.NewMembership(1, "u3", expires)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, m))

		found, err := repo.Get(ctx, 1, "u3")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.WithinDuration(t, expires, found.ExpiresAt(), time.Second)
	})

	t.Run("duplicate membership rejected", func(t *testing.T) {
		m, err := group.NewMembership(2, "u2", time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, m))

		dup, err := group.NewMembership(2, "u2", time.Time{})
		require.NoError(t, err)
		err = repo.Create(ctx, dup)
		assert.ErrorIs(t, err, group.ErrAlreadyMember)
	})

	t.Run("missing membership yields nil", func(t *testing.T) {
		found, err := repo.Get(ctx, 1, "ghost")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGroupMembershipRepository_Delete(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewGroupMembershipRepository(gdb)
	ctx := context.Background()

	m, err := group.NewMembership(1, "u2", time.Time{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, m))

	require.NoError(t, repo.Delete(ctx, m.ID()))

	found, err := repo.Get(ctx, 1, "u2")
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.ErrorIs(t, repo.Delete(ctx, m.ID()), group.ErrMembershipNotFound)
}

func TestGroupMembershipRepository_ListByAllocation(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewGroupMembershipRepository(gdb)
	ctx := context.Background()

	for _, username := range []string{"charlie", "alice", "bob"} {
		m, err := group.NewMembership(1, username, time.Time{})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, m))
	}
	other, err := group.NewMembership(2, "dave", time.Time{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	memberships, err := repo.ListByAllocation(ctx, 1)
	require.NoError(t, err)
	require.Len(t, memberships, 3)
	assert.Equal(t, "alice", memberships[0].Username())
	assert.Equal(t, "bob", memberships[1].Username())
	assert.Equal(t, "charlie", memberships[2].Username())
}

func TestGroupMembershipRepository_ListExpiringOn(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewGroupMembershipRepository(gdb)
	ctx := context.Background()

	day := time.Now().AddDate(0, 0, 30)
	onDay, err := group.NewMembership(1, "expiring", day)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, onDay))

	later, err := group.NewMembership(1, "later", day.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, later))

	unbounded, err := group.NewMembership(1, "forever", time.Time{})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, unbounded))

	memberships, err := repo.ListExpiringOn(ctx, day)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, "expiring", memberships[0].Username())
}

// The membership record and the directory call are one logical operation:
// when the caller's function returns an error, the record write must roll
// back with it.
func TestGroupMembershipRepository_TransactionRollback(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewGroupMembershipRepository(gdb)
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		m, err := group.NewMembership(1, "u2", time.Time{})
		require.NoError(t, err)
		if err := repo.Create(txCtx, m); err != nil {
			return err
		}
		return fmt.Errorf("directory unreachable")
	})
	require.Error(t, err)

	found, err := repo.Get(ctx, 1, "u2")
	require.NoError(t, err)
	assert.Nil(t, found)
}
