package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/domain/group"
)

type auditFixture struct {
	allocRepo      *mockAllocationRepository
	membershipRepo *mockMembershipRepository
	directory      *mockDirectoryClient
	notifier       *mockNotificationSink
	uc             *AuditMembershipsUseCase
}

func newAuditFixture(workers int) *auditFixture {
	f := &auditFixture{
		allocRepo:      new(mockAllocationRepository),
		membershipRepo: new(mockMembershipRepository),
		directory:      new(mockDirectoryClient),
		notifier:       new(mockNotificationSink),
	}
	f.uc = NewAuditMembershipsUseCase(f.allocRepo, f.membershipRepo, f.directory, f.notifier, workers, newTestLogger())
	return f
}

func recordsFor(t *testing.T, allocID uint, usernames ...string) []*group.Membership {
	t.Helper()
	memberships := make([]*group.Membership, 0, len(usernames))
	for i, username := range usernames {
		m, err := group.ReconstructMembership(uint(i+1), allocID, username, time.Time{}, time.Now())
		require.NoError(t, err)
		memberships = append(memberships, m)
	}
	return memberships
}

func TestAuditMemberships_ReportsBothDirections(t *testing.T) {
	f := newAuditFixture(2)
	alloc := testAllocation(t, 1, 1001)

	f.allocRepo.On("ListActive", mock.Anything, []uint(nil)).Return([]*allocation.Allocation{alloc}, nil)
	f.directory.On("ListMembers", mock.Anything, "rdf-1001").Return([]string{"a", "b"}, nil)
	f.membershipRepo.On("ListByAllocation", mock.Anything, uint(1)).Return(recordsFor(t, 1, "b", "c"), nil)
	f.notifier.On("SendDiscrepancyReport", mock.AnythingOfType("usecases.AuditReport")).Return(nil)

	report, err := f.uc.Execute(context.Background(), AuditMembershipsCommand{})

	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	disc := report.Discrepancies[0]
	assert.Equal(t, uint(1), disc.AllocationID)
	assert.Equal(t, []string{"a"}, disc.DirectoryOnly)
	assert.Equal(t, []string{"c"}, disc.RecordsOnly)
	assert.Empty(t, report.Incomplete)

	f.notifier.AssertNumberOfCalls(t, "SendDiscrepancyReport", 1)
}

func TestAuditMemberships_EqualSetsProduceNoFindings(t *testing.T) {
	f := newAuditFixture(2)
	alloc := testAllocation(t, 1, 1001)

	f.allocRepo.On("ListActive", mock.Anything, []uint(nil)).Return([]*allocation.Allocation{alloc}, nil)
	f.directory.On("ListMembers", mock.Anything, "rdf-1001").Return([]string{"b", "a"}, nil)
	f.membershipRepo.On("ListByAllocation", mock.Anything, uint(1)).Return(recordsFor(t, 1, "a", "b"), nil)

	report, err := f.uc.Execute(context.Background(), AuditMembershipsCommand{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Audited)
	assert.Empty(t, report.Discrepancies)
	assert.False(t, report.HasFindings())
	f.notifier.AssertNotCalled(t, "SendDiscrepancyReport", mock.Anything)
}

func TestAuditMemberships_UnreachableGroupMarkedIncomplete(t *testing.T) {
	f := newAuditFixture(4)

	allocs := make([]*allocation.Allocation, 0, 10)
	for i := 1; i <= 10; i++ {
		allocs = append(allocs, testAllocation(t, uint(i), uint(1000+i)))
	}

	f.allocRepo.On("ListActive", mock.Anything, []uint(nil)).Return(allocs, nil)
	for i := 1; i <= 10; i++ {
		name := allocation.GroupNameForGID(uint(1000 + i))
		if i == 3 {
			f.directory.On("ListMembers", mock.Anything, name).Return(nil, fmt.Errorf("ldap timeout"))
			continue
		}
		f.directory.On("ListMembers", mock.Anything, name).Return([]string{"u1", "extra"}, nil)
		f.membershipRepo.On("ListByAllocation", mock.Anything, uint(i)).Return(recordsFor(t, uint(i), "u1"), nil)
	}
	f.notifier.On("SendDiscrepancyReport", mock.AnythingOfType("usecases.AuditReport")).Return(nil)

	report, err := f.uc.Execute(context.Background(), AuditMembershipsCommand{})

	require.NoError(t, err)
	assert.Equal(t, 10, report.Audited)
	assert.Len(t, report.Discrepancies, 9)
	require.Len(t, report.Incomplete, 1)
	assert.Equal(t, uint(3), report.Incomplete[0].AllocationID)
	assert.Contains(t, report.Incomplete[0].Reason, "ldap timeout")

	// one notification batch for the whole run
	f.notifier.AssertNumberOfCalls(t, "SendDiscrepancyReport", 1)
}

func TestAuditMemberships_ReportSortedByAllocation(t *testing.T) {
	f := newAuditFixture(4)

	allocs := []*allocation.Allocation{
		testAllocation(t, 5, 1005),
		testAllocation(t, 2, 1002),
		testAllocation(t, 9, 1009),
	}
	f.allocRepo.On("ListActive", mock.Anything, []uint(nil)).Return(allocs, nil)
	for _, a := range allocs {
		f.directory.On("ListMembers", mock.Anything, a.GroupName()).Return([]string{"ghost"}, nil)
		f.membershipRepo.On("ListByAllocation", mock.Anything, a.ID()).Return([]*group.Membership{}, nil)
	}
	f.notifier.On("SendDiscrepancyReport", mock.Anything).Return(nil)

	report, err := f.uc.Execute(context.Background(), AuditMembershipsCommand{})

	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 3)
	assert.Equal(t, uint(2), report.Discrepancies[0].AllocationID)
	assert.Equal(t, uint(5), report.Discrepancies[1].AllocationID)
	assert.Equal(t, uint(9), report.Discrepancies[2].AllocationID)
}

func TestAuditMemberships_CancelledContextStopsDispatch(t *testing.T) {
	f := newAuditFixture(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.allocRepo.On("ListActive", mock.Anything, []uint(nil)).
		Return([]*allocation.Allocation{testAllocation(t, 1, 1001)}, nil)

	report, err := f.uc.Execute(ctx, AuditMembershipsCommand{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Audited)
	f.directory.AssertNotCalled(t, "ListMembers", mock.Anything, mock.Anything)
}
