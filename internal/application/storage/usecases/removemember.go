package usecases

import (
	"context"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/domain/group"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

type RemoveMemberCommand struct {
	AllocationID uint
	Username     string
}

// RemoveMemberUseCase deletes a membership record and mirrors the removal
// into the directory group as one logical operation. A user the directory
// does not know about is absorbed as success; a failed directory call rolls
// the record deletion back.
type RemoveMemberUseCase struct {
	allocRepo      allocation.Repository
	membershipRepo group.MembershipRepository
	directory      DirectoryClient
	tx             TransactionManager
	logger         logger.Interface
}

func NewRemoveMemberUseCase(
	allocRepo allocation.Repository,
	membershipRepo group.MembershipRepository,
	directory DirectoryClient,
	tx TransactionManager,
	logger logger.Interface,
) *RemoveMemberUseCase {
	return &RemoveMemberUseCase{
		allocRepo:      allocRepo,
		membershipRepo: membershipRepo,
		directory:      directory,
		tx:             tx,
		logger:         logger,
	}
}

func (uc *RemoveMemberUseCase) Execute(ctx context.Context, cmd RemoveMemberCommand) error {
	uc.logger.Infow("executing remove member use case", "allocation_id", cmd.AllocationID, "username", cmd.Username)

	if cmd.Username == "" {
		return errors.NewValidationError("username is required")
	}

	alloc, err := uc.allocRepo.GetByID(ctx, cmd.AllocationID)
	if err != nil {
		return err
	}
	if alloc == nil {
		return errors.NewNotFoundError("allocation not found")
	}

	membership, err := uc.membershipRepo.Get(ctx, alloc.ID(), cmd.Username)
	if err != nil {
		return err
	}
	if membership == nil {
		return errors.NewNotFoundError("membership record not found", group.ErrMembershipNotFound.Error())
	}

	// The allocation owner's membership anchors group ownership; removing it
	// is a deprovisioning action, not a membership change.
	if cmd.Username == alloc.OwnerUsername() {
		return errors.NewValidationError("cannot remove the allocation owner from their own group")
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.membershipRepo.Delete(txCtx, membership.ID()); err != nil {
			return err
		}
		if err := uc.directory.RemoveMember(txCtx, alloc.GroupName(), cmd.Username); err != nil {
			return errors.NewDirectoryOperationError("remove member", alloc.GroupName(), cmd.Username, err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("remove member failed, membership record kept",
			"allocation_id", alloc.ID(),
			"username", cmd.Username,
			"error", err,
		)
		return err
	}

	uc.logger.Infow("member removed",
		"allocation_id", alloc.ID(),
		"group", alloc.GroupName(),
		"username", cmd.Username,
	)
	return nil
}
