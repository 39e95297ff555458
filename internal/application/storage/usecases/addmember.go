package usecases

import (
	"context"
	"time"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/domain/group"
	"rdfstore/internal/domain/identity"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

type AddMemberCommand struct {
	AllocationID uint
	Username     string
	ExpiresAt    time.Time
}

type AddMemberResult struct {
	MembershipID uint
	Username     string
	GroupName    string
	ExpiresAt    string
}

// AddMemberUseCase records a membership and mirrors it into the directory
// group as one logical operation. The directory call runs inside the record
// transaction: if the directory rejects the add, the membership record is
// rolled back and the two stores never diverge through this path. Adding a
// user the directory already knows about is absorbed as success.
type AddMemberUseCase struct {
	allocRepo      allocation.Repository
	membershipRepo group.MembershipRepository
	directory      DirectoryClient
	resolver       IdentityResolver
	tx             TransactionManager
	notifier       NotificationSink
	logger         logger.Interface
}

func NewAddMemberUseCase(
	allocRepo allocation.Repository,
	membershipRepo group.MembershipRepository,
	directory DirectoryClient,
	resolver IdentityResolver,
	tx TransactionManager,
	notifier NotificationSink,
	logger logger.Interface,
) *AddMemberUseCase {
	return &AddMemberUseCase{
		allocRepo:      allocRepo,
		membershipRepo: membershipRepo,
		directory:      directory,
		resolver:       resolver,
		tx:             tx,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *AddMemberUseCase) Execute(ctx context.Context, cmd AddMemberCommand) (*AddMemberResult, error) {
	uc.logger.Infow("executing add member use case", "allocation_id", cmd.AllocationID, "username", cmd.Username)

	if cmd.Username == "" {
		return nil, errors.NewValidationError("username is required")
	}

	alloc, err := uc.allocRepo.GetByID(ctx, cmd.AllocationID)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, errors.NewNotFoundError("allocation not found")
	}
	if !alloc.IsActive() {
		return nil, errors.NewValidationError("allocation is not active")
	}

	existing, err := uc.membershipRepo.Get(ctx, alloc.ID(), cmd.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.NewConflictError("user is already a member of this allocation")
	}

	profile, err := uc.resolver.Resolve(ctx, cmd.Username)
	if err != nil {
		uc.logger.Errorw("member identity resolution failed", "username", cmd.Username, "error", err)
		return nil, err
	}
	if !identity.Eligible(profile) {
		return nil, errors.NewIdentityResolutionError(cmd.Username, "user is not eligible for storage access")
	}

	membership, err := group.NewMembership(alloc.ID(), profile.Username, cmd.ExpiresAt)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.membershipRepo.Create(txCtx, membership); err != nil {
			return err
		}
		if err := uc.directory.AddMember(txCtx, alloc.GroupName(), profile.Username); err != nil {
			return errors.NewDirectoryOperationError("add member", alloc.GroupName(), profile.Username, err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("add member failed, membership record rolled back",
			"allocation_id", alloc.ID(),
			"username", profile.Username,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("member added",
		"allocation_id", alloc.ID(),
		"group", alloc.GroupName(),
		"username", profile.Username,
	)

	if profile.Email != "" {
		if err := uc.notifier.SendAccessGranted(profile.Email, profile.Username, alloc.GroupName()); err != nil {
			uc.logger.Warnw("access granted notification failed", "username", profile.Username, "error", err)
		}
	}

	expires := ""
	if !membership.ExpiresAt().IsZero() {
		expires = membership.ExpiresAt().Format(time.RFC3339)
	}
	return &AddMemberResult{
		MembershipID: membership.ID(),
		Username:     profile.Username,
		GroupName:    alloc.GroupName(),
		ExpiresAt:    expires,
	}, nil
}
