package usecases

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/domain/group"
	"rdfstore/internal/domain/identity"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

func newTestLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockAllocationRepository struct {
	mock.Mock
}

func (m *mockAllocationRepository) Create(ctx context.Context, alloc *allocation.Allocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *mockAllocationRepository) Update(ctx context.Context, alloc *allocation.Allocation) error {
	args := m.Called(ctx, alloc)
	return args.Error(0)
}

func (m *mockAllocationRepository) GetByID(ctx context.Context, id uint) (*allocation.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.Allocation), args.Error(1)
}

func (m *mockAllocationRepository) GetByGID(ctx context.Context, gid uint) (*allocation.Allocation, error) {
	args := m.Called(ctx, gid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.Allocation), args.Error(1)
}

func (m *mockAllocationRepository) ListActive(ctx context.Context, ids []uint) ([]*allocation.Allocation, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*allocation.Allocation), args.Error(1)
}

func (m *mockAllocationRepository) List(ctx context.Context, filter allocation.ListFilter) ([]*allocation.Allocation, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*allocation.Allocation), args.Get(1).(int64), args.Error(2)
}

type mockGroupRepository struct {
	mock.Mock
}

func (m *mockGroupRepository) Create(ctx context.Context, grp *group.ResearchGroup) error {
	args := m.Called(ctx, grp)
	return args.Error(0)
}

func (m *mockGroupRepository) GetByID(ctx context.Context, id uint) (*group.ResearchGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.ResearchGroup), args.Error(1)
}

func (m *mockGroupRepository) GetByName(ctx context.Context, name string) (*group.ResearchGroup, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.ResearchGroup), args.Error(1)
}

func (m *mockGroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

type mockMembershipRepository struct {
	mock.Mock
}

func (m *mockMembershipRepository) Create(ctx context.Context, membership *group.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *mockMembershipRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockMembershipRepository) Get(ctx context.Context, allocationID uint, username string) (*group.Membership, error) {
	args := m.Called(ctx, allocationID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.Membership), args.Error(1)
}

func (m *mockMembershipRepository) ListByAllocation(ctx context.Context, allocationID uint) ([]*group.Membership, error) {
	args := m.Called(ctx, allocationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*group.Membership), args.Error(1)
}

func (m *mockMembershipRepository) ListExpiringOn(ctx context.Context, day time.Time) ([]*group.Membership, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*group.Membership), args.Error(1)
}

type mockGIDAllocator struct {
	mock.Mock
}

func (m *mockGIDAllocator) Next(ctx context.Context) (uint, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint), args.Error(1)
}

type mockDirectoryClient struct {
	mock.Mock
}

func (m *mockDirectoryClient) CreateGroup(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockDirectoryClient) DeleteGroup(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockDirectoryClient) AddMember(ctx context.Context, group, username string) error {
	args := m.Called(ctx, group, username)
	return args.Error(0)
}

func (m *mockDirectoryClient) RemoveMember(ctx context.Context, group, username string) error {
	args := m.Called(ctx, group, username)
	return args.Error(0)
}

func (m *mockDirectoryClient) ListMembers(ctx context.Context, group string) ([]string, error) {
	args := m.Called(ctx, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockFilesystemClient struct {
	mock.Mock
}

func (m *mockFilesystemClient) CreateFileset(ctx context.Context, ownerGroup, name string, quotaBytes int64) error {
	args := m.Called(ctx, ownerGroup, name, quotaBytes)
	return args.Error(0)
}

func (m *mockFilesystemClient) DeleteFileset(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockFilesystemClient) GetUsage(ctx context.Context, name string) (FilesetUsage, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(FilesetUsage), args.Error(1)
}

type mockIdentityResolver struct {
	mock.Mock
}

func (m *mockIdentityResolver) Resolve(ctx context.Context, username string) (identity.Profile, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(identity.Profile), args.Error(1)
}

type mockNotificationSink struct {
	mock.Mock
}

func (m *mockNotificationSink) SendDiscrepancyReport(report AuditReport) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *mockNotificationSink) SendCompensationAlert(failure *errors.CompensationFailureError) error {
	args := m.Called(failure)
	return args.Error(0)
}

func (m *mockNotificationSink) SendAccessGranted(email, username, groupName string) error {
	args := m.Called(email, username, groupName)
	return args.Error(0)
}

func (m *mockNotificationSink) SendExpirationAlert(email, username, groupName string, expires time.Time) error {
	args := m.Called(email, username, groupName, expires)
	return args.Error(0)
}

// mockTransactionManager runs the given function inline without a real
// transaction so tests can observe rollback behaviour through call order.
type mockTransactionManager struct{}

func (m *mockTransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
