package usecases

import (
	"context"
	"fmt"
	"time"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/domain/group"
	"rdfstore/internal/shared/logger"
)

type ExpiryNotificationSummary struct {
	Expiring int
	Notified int
}

// NotifyExpiringMembershipsUseCase alerts members whose allocation access
// expires in exactly the configured number of days. Run daily, each
// membership is alerted once: on the day it crosses the notice window.
type NotifyExpiringMembershipsUseCase struct {
	allocRepo      allocation.Repository
	membershipRepo group.MembershipRepository
	resolver       IdentityResolver
	notifier       NotificationSink
	noticeDays     int
	logger         logger.Interface
}

func NewNotifyExpiringMembershipsUseCase(
	allocRepo allocation.Repository,
	membershipRepo group.MembershipRepository,
	resolver IdentityResolver,
	notifier NotificationSink,
	noticeDays int,
	logger logger.Interface,
) *NotifyExpiringMembershipsUseCase {
	if noticeDays < 1 {
		noticeDays = 30
	}
	return &NotifyExpiringMembershipsUseCase{
		allocRepo:      allocRepo,
		membershipRepo: membershipRepo,
		resolver:       resolver,
		notifier:       notifier,
		noticeDays:     noticeDays,
		logger:         logger,
	}
}

func (uc *NotifyExpiringMembershipsUseCase) Execute(ctx context.Context) (*ExpiryNotificationSummary, error) {
	day := time.Now().AddDate(0, 0, uc.noticeDays)

	memberships, err := uc.membershipRepo.ListExpiringOn(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring memberships: %w", err)
	}

	summary := &ExpiryNotificationSummary{Expiring: len(memberships)}

	for _, m := range memberships {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		alloc, err := uc.allocRepo.GetByID(ctx, m.AllocationID())
		if err != nil || alloc == nil {
			uc.logger.Warnw("expiry notification skipped, allocation missing",
				"membership_id", m.ID(),
				"allocation_id", m.AllocationID(),
				"error", err,
			)
			continue
		}

		profile, err := uc.resolver.Resolve(ctx, m.Username())
		if err != nil || profile.Email == "" {
			uc.logger.Warnw("expiry notification skipped, no email for member",
				"username", m.Username(),
				"error", err,
			)
			continue
		}

		if err := uc.notifier.SendExpirationAlert(profile.Email, m.Username(), alloc.GroupName(), m.ExpiresAt()); err != nil {
			uc.logger.Warnw("expiry notification failed",
				"username", m.Username(),
				"group", alloc.GroupName(),
				"error", err,
			)
			continue
		}
		summary.Notified++
	}

	uc.logger.Infow("expiry notification run finished",
		"expiring", summary.Expiring,
		"notified", summary.Notified,
	)
	return summary, nil
}
