package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/domain/allocation"
)

func TestGIDAllocator_SequentialFromFloor(t *testing.T) {
	gdb := setupTestDB(t)
	allocator := NewGIDAllocatorRepository(gdb, 1001, 0)
	ctx := context.Background()

	for want := uint(1001); want <= 1005; want++ {
		gid, err := allocator.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, gid)
	}
}

func TestGIDAllocator_ConcurrentCallsYieldDistinctGIDs(t *testing.T) {
	gdb := setupTestDB(t)
	allocator := NewGIDAllocatorRepository(gdb, 1001, 0)
	ctx := context.Background()

	const n = 20
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[uint]bool, n)
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gid, err := allocator.Next(ctx)
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[gid], "gid %d handed out twice", gid)
			seen[gid] = true
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for gid := range seen {
		assert.GreaterOrEqual(t, gid, uint(1001))
		assert.Less(t, gid, uint(1001+n))
	}
}

func TestGIDAllocator_ExhaustedRange(t *testing.T) {
	gdb := setupTestDB(t)
	allocator := NewGIDAllocatorRepository(gdb, 1001, 1002)
	ctx := context.Background()

	gid, err := allocator.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1001), gid)

	gid, err = allocator.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1002), gid)

	_, err = allocator.Next(ctx)
	assert.ErrorIs(t, err, allocation.ErrGIDExhausted)
}

// A failed provisioning run keeps its GID: the next call moves on rather
// than reissuing it.
func TestGIDAllocator_GIDsNeverReissued(t *testing.T) {
	gdb := setupTestDB(t)
	allocator := NewGIDAllocatorRepository(gdb, 1001, 0)
	ctx := context.Background()

	first, err := allocator.Next(ctx)
	require.NoError(t, err)

	// nothing is ever written for the first GID; the provisioning run that
	// took it failed downstream
	second, err := allocator.Next(ctx)
	require.NoError(t, err)

	assert.Equal(t, first+1, second)
}
