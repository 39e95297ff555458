package usecases

import (
	"context"
	"fmt"
	"time"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/domain/group"
	"rdfstore/internal/domain/identity"
	"rdfstore/internal/shared/errors"
	"rdfstore/internal/shared/logger"
)

type ProvisionAllocationCommand struct {
	OwnerUsername string
	Department    string
	Faculty       string
	QuotaBytes    int64
}

type ProvisionAllocationResult struct {
	AllocationID uint
	GID          uint
	GroupName    string
	FilesetName  string
	Department   string
	Faculty      string
	Status       string
	CreatedAt    string
}

// provisionStep pairs an action with its compensating action. Compensations
// run in reverse order when a later step fails; a step without external side
// effects has a nil compensation.
type provisionStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
	resource   string
	done       bool
}

// ProvisionAllocationUseCase creates a fully provisioned storage allocation:
// a fresh GID, the directory group named after it with the owner as first
// member, a fileset owned by that group, and the local records. The steps
// form a saga; no cross-system transaction exists, so a failure triggers
// best-effort compensating deletion of already-created external resources
// before the error surfaces. No partial allocation row is ever persisted.
type ProvisionAllocationUseCase struct {
	allocRepo      allocation.Repository
	membershipRepo group.MembershipRepository
	gids           allocation.GIDAllocator
	directory      DirectoryClient
	filesystem     FilesystemClient
	resolver       IdentityResolver
	tx             TransactionManager
	notifier       NotificationSink
	logger         logger.Interface
}

func NewProvisionAllocationUseCase(
	allocRepo allocation.Repository,
	membershipRepo group.MembershipRepository,
	gids allocation.GIDAllocator,
	directory DirectoryClient,
	filesystem FilesystemClient,
	resolver IdentityResolver,
	tx TransactionManager,
	notifier NotificationSink,
	logger logger.Interface,
) *ProvisionAllocationUseCase {
	return &ProvisionAllocationUseCase{
		allocRepo:      allocRepo,
		membershipRepo: membershipRepo,
		gids:           gids,
		directory:      directory,
		filesystem:     filesystem,
		resolver:       resolver,
		tx:             tx,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *ProvisionAllocationUseCase) Execute(ctx context.Context, cmd ProvisionAllocationCommand) (*ProvisionAllocationResult, error) {
	uc.logger.Infow("executing provision allocation use case", "owner", cmd.OwnerUsername)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid provision allocation command", "error", err)
		return nil, err
	}

	// Step 1: resolve the owner's canonical identity. The profile is reused
	// for the rest of this run only, never cached across runs.
	profile, err := uc.resolver.Resolve(ctx, cmd.OwnerUsername)
	if err != nil {
		uc.logger.Errorw("owner identity resolution failed", "owner", cmd.OwnerUsername, "error", err)
		return nil, err
	}
	if !identity.Eligible(profile) {
		return nil, errors.NewIdentityResolutionError(cmd.OwnerUsername, "user is not eligible for storage access")
	}

	department := profile.Department
	if department == "" {
		department = cmd.Department
	}
	faculty := profile.Faculty
	if faculty == "" {
		faculty = cmd.Faculty
	}

	// Step 2: draw the next GID. GIDs are never reclaimed, so a run that
	// fails later simply burns this one.
	gid, err := uc.gids.Next(ctx)
	if err != nil {
		uc.logger.Errorw("gid allocation failed", "error", err)
		return nil, fmt.Errorf("failed to allocate gid: %w", err)
	}

	groupName := allocation.GroupNameForGID(gid)

	alloc, err := allocation.NewAllocation(gid, profile.Username, profile.UID, department, faculty, cmd.QuotaBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create allocation aggregate: %w", err)
	}

	steps := []*provisionStep{
		{
			name:     "create directory group",
			resource: "directory group " + groupName,
			run: func(ctx context.Context) error {
				if err := uc.directory.CreateGroup(ctx, groupName); err != nil {
					return errors.NewDirectoryOperationError("create group", groupName, "", err)
				}
				return nil
			},
			compensate: func(ctx context.Context) error {
				return uc.directory.DeleteGroup(ctx, groupName)
			},
		},
		{
			// Its own step so a failed add still triggers the group-delete
			// compensation above; deleting the group removes the member too.
			name: "add owner to directory group",
			run: func(ctx context.Context) error {
				if err := uc.directory.AddMember(ctx, groupName, profile.Username); err != nil {
					return errors.NewDirectoryOperationError("add member", groupName, profile.Username, err)
				}
				return nil
			},
		},
		{
			name:     "create fileset",
			resource: "fileset " + alloc.FilesetName(),
			run: func(ctx context.Context) error {
				return uc.filesystem.CreateFileset(ctx, groupName, alloc.FilesetName(), cmd.QuotaBytes)
			},
			compensate: func(ctx context.Context) error {
				return uc.filesystem.DeleteFileset(ctx, alloc.FilesetName())
			},
		},
		{
			name: "persist allocation",
			run: func(ctx context.Context) error {
				return uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
					if err := uc.allocRepo.Create(txCtx, alloc); err != nil {
						return err
					}
					membership, err := group.NewMembership(alloc.ID(), profile.Username, time.Time{})
					if err != nil {
						return err
					}
					return uc.membershipRepo.Create(txCtx, membership)
				})
			},
		},
	}

	for i, step := range steps {
		if err := step.run(ctx); err != nil {
			uc.logger.Errorw("provisioning step failed", "step", step.name, "gid", gid, "error", err)
			if compErr := uc.compensate(ctx, steps[:i], err); compErr != nil {
				return nil, compErr
			}
			return nil, fmt.Errorf("provisioning failed at step %q, external resources rolled back: %w", step.name, err)
		}
		step.done = true
	}

	uc.logger.Infow("allocation provisioned",
		"allocation_id", alloc.ID(),
		"gid", gid,
		"group", groupName,
		"owner", profile.Username,
		"quota_bytes", cmd.QuotaBytes,
	)

	if profile.Email != "" {
		if err := uc.notifier.SendAccessGranted(profile.Email, profile.Username, groupName); err != nil {
			uc.logger.Warnw("access granted notification failed", "owner", profile.Username, "error", err)
		}
	}

	return &ProvisionAllocationResult{
		AllocationID: alloc.ID(),
		GID:          gid,
		GroupName:    groupName,
		FilesetName:  alloc.FilesetName(),
		Department:   department,
		Faculty:      faculty,
		Status:       alloc.Status().String(),
		CreatedAt:    alloc.CreatedAt().Format(time.RFC3339),
	}, nil
}

// compensate unwinds completed steps in reverse order. A compensation
// failure is escalated as CompensationFailure so operators know orphaned
// external state may exist; it is logged, emailed and returned in place of
// the original error.
func (uc *ProvisionAllocationUseCase) compensate(ctx context.Context, completed []*provisionStep, cause error) error {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.compensate == nil || !step.done {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			orphaned := make([]string, 0, i+1)
			for _, s := range completed[:i+1] {
				if s.resource != "" {
					orphaned = append(orphaned, s.resource)
				}
			}
			failure := errors.NewCompensationFailure(step.name, cause, err, orphaned)
			uc.logger.Errorw("compensation failed, manual cleanup required",
				"step", step.name,
				"orphaned", orphaned,
				"error", err,
			)
			if sendErr := uc.notifier.SendCompensationAlert(failure); sendErr != nil {
				uc.logger.Errorw("compensation alert notification failed", "error", sendErr)
			}
			return failure
		}
		uc.logger.Infow("compensated provisioning step", "step", step.name)
	}
	return nil
}

func (uc *ProvisionAllocationUseCase) validateCommand(cmd ProvisionAllocationCommand) error {
	if cmd.OwnerUsername == "" {
		return errors.NewValidationError("owner username is required")
	}
	if cmd.QuotaBytes <= 0 {
		return errors.NewValidationError("quota must be positive")
	}
	return nil
}
