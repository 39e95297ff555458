package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/domain/group"
	"rdfstore/internal/domain/identity"
)

func TestNotifyExpiringMemberships_AlertsEachMember(t *testing.T) {
	allocRepo := new(mockAllocationRepository)
	membershipRepo := new(mockMembershipRepository)
	resolver := new(mockIdentityResolver)
	notifier := new(mockNotificationSink)
	uc := NewNotifyExpiringMembershipsUseCase(allocRepo, membershipRepo, resolver, notifier, 30, newTestLogger())

	expires := time.Now().AddDate(0, 0, 30)
	m1, err := group.ReconstructMembership(1, 1, "u2", expires, time.Now())
	require.NoError(t, err)
	m2, err := group.ReconstructMembership(2, 1, "u3", expires, time.Now())
	require.NoError(t, err)

	alloc := testAllocation(t, 1, 1001)
	membershipRepo.On("ListExpiringOn", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*group.Membership{m1, m2}, nil)
	allocRepo.On("GetByID", mock.Anything, uint(1)).Return(alloc, nil)
	resolver.On("Resolve", mock.Anything, "u2").Return(memberProfile("u2"), nil)
	resolver.On("Resolve", mock.Anything, "u3").Return(memberProfile("u3"), nil)
	notifier.On("SendExpirationAlert", "u2@example.ac.uk", "u2", "rdf-1001", expires).Return(nil)
	notifier.On("SendExpirationAlert", "u3@example.ac.uk", "u3", "rdf-1001", expires).Return(nil)

	summary, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &ExpiryNotificationSummary{Expiring: 2, Notified: 2}, summary)
	notifier.AssertExpectations(t)
}

func TestNotifyExpiringMemberships_SkipsUnresolvableMembers(t *testing.T) {
	allocRepo := new(mockAllocationRepository)
	membershipRepo := new(mockMembershipRepository)
	resolver := new(mockIdentityResolver)
	notifier := new(mockNotificationSink)
	uc := NewNotifyExpiringMembershipsUseCase(allocRepo, membershipRepo, resolver, notifier, 30, newTestLogger())

	expires := time.Now().AddDate(0, 0, 30)
	m1, err := group.ReconstructMembership(1, 1, "gone", expires, time.Now())
	require.NoError(t, err)

	alloc := testAllocation(t, 1, 1001)
	membershipRepo.On("ListExpiringOn", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*group.Membership{m1}, nil)
	allocRepo.On("GetByID", mock.Anything, uint(1)).Return(alloc, nil)
	resolver.On("Resolve", mock.Anything, "gone").
		Return(identityProfileWithoutEmail(), nil)

	summary, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &ExpiryNotificationSummary{Expiring: 1, Notified: 0}, summary)
	notifier.AssertNotCalled(t, "SendExpirationAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func identityProfileWithoutEmail() identity.Profile {
	p := memberProfile("gone")
	p.Email = ""
	return p
}
