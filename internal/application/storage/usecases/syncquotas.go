package usecases

import (
	"context"
	"fmt"
	"sync"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/shared/logger"
)

type SyncQuotasCommand struct {
	// AllocationIDs restricts the run to a subset; empty means every active
	// allocation.
	AllocationIDs []uint
}

type QuotaSyncSummary struct {
	Total  int
	Synced int
	Failed int
}

// SyncQuotasUseCase pulls current usage for every active allocation's
// fileset into the local records. Per-allocation failures are logged and
// skipped so one unreachable fileset cannot abort the run, and the job is
// idempotent per allocation: re-running with unchanged upstream usage leaves
// the records unchanged. Allocations are processed by a bounded worker pool
// and the run stops dispatching once ctx is cancelled.
type SyncQuotasUseCase struct {
	allocRepo  allocation.Repository
	filesystem FilesystemClient
	workers    int
	logger     logger.Interface
}

func NewSyncQuotasUseCase(
	allocRepo allocation.Repository,
	filesystem FilesystemClient,
	workers int,
	logger logger.Interface,
) *SyncQuotasUseCase {
	if workers < 1 {
		workers = 1
	}
	return &SyncQuotasUseCase{
		allocRepo:  allocRepo,
		filesystem: filesystem,
		workers:    workers,
		logger:     logger,
	}
}

func (uc *SyncQuotasUseCase) Execute(ctx context.Context, cmd SyncQuotasCommand) (*QuotaSyncSummary, error) {
	allocs, err := uc.allocRepo.ListActive(ctx, cmd.AllocationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list active allocations: %w", err)
	}

	uc.logger.Infow("starting quota sync run", "allocations", len(allocs), "workers", uc.workers)

	summary := &QuotaSyncSummary{Total: len(allocs)}

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

			ok := uc.syncOne(ctx, alloc)

			mu.Lock()
			if ok {
				summary.Synced++
			} else {
				summary.Failed++
			}
			mu.Unlock()
		}(alloc)
	}

	wg.Wait()

	uc.logger.Infow("quota sync run finished",
		"total", summary.Total,
		"synced", summary.Synced,
		"failed", summary.Failed,
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (uc *SyncQuotasUseCase) syncOne(ctx context.Context, alloc *allocation.Allocation) bool {
	usage, err := uc.filesystem.GetUsage(ctx, alloc.FilesetName())
	if err != nil {
		uc.logger.Warnw("quota sync skipped allocation, usage unavailable",
			"allocation_id", alloc.ID(),
			"fileset", alloc.FilesetName(),
			"error", err,
		)
		return false
	}

	if err := alloc.UpdateUsage(usage.UsedBytes, usage.QuotaBytes); err != nil {
		uc.logger.Warnw("quota sync skipped allocation, bad usage figures",
			"allocation_id", alloc.ID(),
			"used_bytes", usage.UsedBytes,
			"error", err,
		)
		return false
	}

	if err := uc.allocRepo.Update(ctx, alloc); err != nil {
		uc.logger.Warnw("quota sync failed to persist usage",
			"allocation_id", alloc.ID(),
			"error", err,
		)
		return false
	}

	return true
}
