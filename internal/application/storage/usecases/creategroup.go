package usecases

import (
	"context"
	"fmt"
	"time"

	"rdfstore/internal/domain/group"
	"rdfstore/internal/domain/identity"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

type CreateGroupCommand struct {
	Name          string
	Department    string
	Faculty       string
	OwnerUsername string
}

type CreateGroupResult struct {
	GroupID       uint
	Name          string
	Department    string
	Faculty       string
	OwnerUsername string
	CreatedAt     string
}

// CreateGroupUseCase handles the admin-only creation of a research group.
type CreateGroupUseCase struct {
	groupRepo group.Repository
	resolver  IdentityResolver
	logger    logger.Interface
}

func NewCreateGroupUseCase(
	groupRepo group.Repository,
	resolver IdentityResolver,
	logger logger.Interface,
) *CreateGroupUseCase {
	return &CreateGroupUseCase{
		groupRepo: groupRepo,
		resolver:  resolver,
		logger:    logger,
	}
}

func (uc *CreateGroupUseCase) Execute(ctx context.Context, cmd CreateGroupCommand) (*CreateGroupResult, error) {
	uc.logger.Infow("executing create group use case", "name", cmd.Name, "owner", cmd.OwnerUsername)

	if cmd.Name == "" {
		return nil, errors.NewValidationError("group name is required")
	}
	if cmd.OwnerUsername == "" {
		return nil, errors.NewValidationError("owner username is required")
	}

	exists, err := uc.groupRepo.ExistsByName(ctx, cmd.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check group name existence: %w", err)
	}
	if exists {
		return nil, errors.NewConflictError("a group with this name already exists")
	}

	profile, err := uc.resolver.Resolve(ctx, cmd.OwnerUsername)
	if err != nil {
		uc.logger.Errorw("owner identity resolution failed", "owner", cmd.OwnerUsername, "error", err)
		return nil, err
	}
	if !identity.Eligible(profile) {
		return nil, errors.NewIdentityResolutionError(cmd.OwnerUsername, "user is not eligible for storage access")
	}

	department := cmd.Department
	if department == "" {
		department = profile.Department
	}
	faculty := cmd.Faculty
	if faculty == "" {
		faculty = profile.Faculty
	}

	grp, err := group.NewResearchGroup(cmd.Name, department, faculty, profile.Username)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.groupRepo.Create(ctx, grp); err != nil {
		uc.logger.Errorw("failed to create research group", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create research group: %w", err)
	}

	uc.logger.Infow("research group created", "group_id", grp.ID(), "name", grp.Name())

	return &CreateGroupResult{
		GroupID:       grp.ID(),
		Name:          grp.Name(),
		Department:    grp.Department(),
		Faculty:       grp.Faculty(),
		OwnerUsername: grp.OwnerUsername(),
		CreatedAt:     grp.CreatedAt().Format(time.RFC3339),
	}, nil
}
