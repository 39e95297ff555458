package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/domain/group"
	"rdfstore/internal/shared/logger"
)

type AuditMembershipsCommand struct {
	// AllocationIDs restricts the run to a subset; empty means every active
	// allocation.
	AllocationIDs []uint
}

// Discrepancy reports the membership drift found for one allocation:
// DirectoryOnly are identities present in the directory group but not in
// the membership records, RecordsOnly the reverse. Not persisted; consumed
// by the notification path of the same run.
type Discrepancy struct {
	AllocationID  uint
	GroupName     string
	DirectoryOnly []string
	RecordsOnly   []string
}

// AuditIncompleteEntry marks an allocation whose audit was skipped because
// an upstream service was unreachable. Distinct from a discrepancy.
type AuditIncompleteEntry struct {
	AllocationID uint
	GroupName    string
	Reason       string
}

// AuditReport aggregates everything one audit run found. One run yields at
// most one notification batch, never one per discrepancy.
type AuditReport struct {
	RunAt         time.Time
	Audited       int
	Discrepancies []Discrepancy
	Incomplete    []AuditIncompleteEntry
}

// HasFindings reports whether the run found anything worth notifying about.
func (r *AuditReport) HasFindings() bool {
	return len(r.Discrepancies) > 0 || len(r.Incomplete) > 0
}

// AuditMembershipsUseCase compares, for every active allocation, the
// directory group's current membership against the local membership records
// and reports drift to operators. The directory is re-fetched on every run
// since it is independently writable. The job is purely observational: it
// never mutates either store, because automatic resolution risks destructive
// action on ambiguous drift.
type AuditMembershipsUseCase struct {
	allocRepo      allocation.Repository
	membershipRepo group.MembershipRepository
	directory      DirectoryClient
	notifier       NotificationSink
	workers        int
	logger         logger.Interface
}

func NewAuditMembershipsUseCase(
	allocRepo allocation.Repository,
	membershipRepo group.MembershipRepository,
	directory DirectoryClient,
	notifier NotificationSink,
	workers int,
	logger logger.Interface,
) *AuditMembershipsUseCase {
	if workers < 1 {
		workers = 1
	}
	return &AuditMembershipsUseCase{
		allocRepo:      allocRepo,
		membershipRepo: membershipRepo,
		directory:      directory,
		notifier:       notifier,
		workers:        workers,
		logger:         logger,
	}
}

func (uc *AuditMembershipsUseCase) Execute(ctx context.Context, cmd AuditMembershipsCommand) (*AuditReport, error) {
	allocs, err := uc.allocRepo.ListActive(ctx, cmd.AllocationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list active allocations: %w", err)
	}

	uc.logger.Infow("starting membership audit run", "allocations", len(allocs), "workers", uc.workers)

	report := &AuditReport{RunAt: time.Now()}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, uc.workers)
	)

dispatch:
	for _, alloc := range allocs {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(alloc *allocation.Allocation) {
			defer wg.Done()
			defer func() { <-sem }()

			disc, incomplete := uc.auditOne(ctx, alloc)

			mu.Lock()
			report.Audited++
			if disc != nil {
				report.Discrepancies = append(report.Discrepancies, *disc)
			}
			if incomplete != nil {
				report.Incomplete = append(report.Incomplete, *incomplete)
			}
			mu.Unlock()
		}(alloc)
	}

	wg.Wait()

	sort.Slice(report.Discrepancies, func(i, j int) bool {
		return report.Discrepancies[i].AllocationID < report.Discrepancies[j].AllocationID
	})
	sort.Slice(report.Incomplete, func(i, j int) bool {
		return report.Incomplete[i].AllocationID < report.Incomplete[j].AllocationID
	})

	uc.logger.Infow("membership audit run finished",
		"audited", report.Audited,
		"discrepancies", len(report.Discrepancies),
		"incomplete", len(report.Incomplete),
	)

	if report.HasFindings() {
		if err := uc.notifier.SendDiscrepancyReport(*report); err != nil {
			uc.logger.Errorw("discrepancy report notification failed", "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (uc *AuditMembershipsUseCase) auditOne(ctx context.Context, alloc *allocation.Allocation) (*Discrepancy, *AuditIncompleteEntry) {
	directoryMembers, err := uc.directory.ListMembers(ctx, alloc.GroupName())
	if err != nil {
		uc.logger.Warnw("audit incomplete for allocation, directory unreachable",
			"allocation_id", alloc.ID(),
			"group", alloc.GroupName(),
			"error", err,
		)
		return nil, &AuditIncompleteEntry{
			AllocationID: alloc.ID(),
			GroupName:    alloc.GroupName(),
			Reason:       err.Error(),
		}
	}

	memberships, err := uc.membershipRepo.ListByAllocation(ctx, alloc.ID())
	if err != nil {
		return nil, &AuditIncompleteEntry{
			AllocationID: alloc.ID(),
			GroupName:    alloc.GroupName(),
			Reason:       err.Error(),
		}
	}

	inDirectory := make(map[string]bool, len(directoryMembers))
	for _, m := range directoryMembers {
		inDirectory[m] = true
	}
	inRecords := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		inRecords[m.Username()] = true
	}

	var directoryOnly, recordsOnly []string
	for m := range inDirectory {
		if !inRecords[m] {
			directoryOnly = append(directoryOnly, m)
		}
	}
	for m := range inRecords {
		if !inDirectory[m] {
			recordsOnly = append(recordsOnly, m)
		}
	}

	if len(directoryOnly) == 0 && len(recordsOnly) == 0 {
		return nil, nil
	}

	sort.Strings(directoryOnly)
	sort.Strings(recordsOnly)

	return &Discrepancy{
		AllocationID:  alloc.ID(),
		GroupName:     alloc.GroupName(),
		DirectoryOnly: directoryOnly,
		RecordsOnly:   recordsOnly,
	}, nil
}
