package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rdfstore/internal/domain/group"
	"rdfstore/internal/shared/errors"
)

func TestCreateGroup_Success(t *testing.T) {
	groupRepo := new(mockGroupRepository)
	resolver := new(mockIdentityResolver)
	uc := NewCreateGroupUseCase(groupRepo, resolver, newTestLogger())

	groupRepo.On("ExistsByName", mock.Anything, "hpc-lab").Return(false, nil)
	resolver.On("Resolve", mock.Anything, "u1").Return(ownerProfile(), nil)
	groupRepo.On("Create", mock.Anything, mock.AnythingOfType("*group.ResearchGroup")).
		Run(func(args mock.Arguments) {
			grp := args.Get(1).(*group.ResearchGroup)
			require.NoError(t, grp.SetID(3))
		}).Return(nil)

	result, err := uc.Execute(context.Background(), CreateGroupCommand{
		Name:          "hpc-lab",
		OwnerUsername: "u1",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(3), result.GroupID)
	assert.Equal(t, "hpc-lab", result.Name)
	// department defaults from the owner's profile
	assert.Equal(t, "Engineering", result.Department)
	assert.Equal(t, "Faculty of Engineering", result.Faculty)
}

func TestCreateGroup_DuplicateNameRejected(t *testing.T) {
	groupRepo := new(mockGroupRepository)
	resolver := new(mockIdentityResolver)
	uc := NewCreateGroupUseCase(groupRepo, resolver, newTestLogger())

	groupRepo.On("ExistsByName", mock.Anything, "hpc-lab").Return(true, nil)

	result, err := uc.Execute(context.Background(), CreateGroupCommand{
		Name:          "hpc-lab",
		OwnerUsername: "u1",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeConflict, appErr.Type)
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateGroup_IneligibleOwnerRejected(t *testing.T) {
	groupRepo := new(mockGroupRepository)
	resolver := new(mockIdentityResolver)
	uc := NewCreateGroupUseCase(groupRepo, resolver, newTestLogger())

	profile := ownerProfile()
	profile.UserType = "Guest"
	groupRepo.On("ExistsByName", mock.Anything, "hpc-lab").Return(false, nil)
	resolver.On("Resolve", mock.Anything, "u1").Return(profile, nil)

	result, err := uc.Execute(context.Background(), CreateGroupCommand{
		Name:          "hpc-lab",
		OwnerUsername: "u1",
	})

	assert.Nil(t, result)
	assert.True(t, errors.IsIdentityResolutionError(err))
	groupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateGroup_Validation(t *testing.T) {
	uc := NewCreateGroupUseCase(new(mockGroupRepository), new(mockIdentityResolver), newTestLogger())

	_, err := uc.Execute(context.Background(), CreateGroupCommand{OwnerUsername: "u1"})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(context.Background(), CreateGroupCommand{Name: "hpc-lab"})
	assert.True(t, errors.IsValidationError(err))
}
