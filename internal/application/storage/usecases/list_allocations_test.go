package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/domain/allocation"
)

func TestListAllocations_FiltersByStatus(t *testing.T) {
	allocRepo := new(mockAllocationRepository)
	uc := NewListAllocationsUseCase(allocRepo, newTestLogger())

	alloc := testAllocation(t, 1, 1001)
	active := allocation.StatusActive
	allocRepo.On("List", mock.Anything, allocation.ListFilter{Status: &active, Page: 1, PageSize: 20}).
		Return([]*allocation.Allocation{alloc}, int64(1), nil)

	result, err := uc.Execute(context.Background(), ListAllocationsQuery{Status: "active", Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Allocations, 1)
	view := result.Allocations[0]
	assert.Equal(t, uint(1001), view.GID)
	assert.Equal(t, "rdf-1001", view.GroupName)
	assert.Equal(t, "u1", view.Owner)
}

func TestListAllocations_RejectsUnknownStatus(t *testing.T) {
	uc := NewListAllocationsUseCase(new(mockAllocationRepository), newTestLogger())

	result, err := uc.Execute(context.Background(), ListAllocationsQuery{Status: "melted"})

	assert.Nil(t, result)
	assert.Error(t, err)
}
