package usecases

import (
	"context"
	"fmt"
	"time"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/shared/logger"
)

type ListAllocationsQuery struct {
	Status   string
	Owner    string
	Page     int
	PageSize int
}

type AllocationView struct {
	ID          uint   `json:"id"`
	GID         uint   `json:"gid"`
	GroupName   string `json:"group_name"`
	FilesetName string `json:"fileset_name"`
	Owner       string `json:"owner"`
	Department  string `json:"department"`
	Faculty     string `json:"faculty"`
	QuotaBytes  int64  `json:"quota_bytes"`
	UsedBytes   int64  `json:"used_bytes"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type ListAllocationsResult struct {
	Allocations []AllocationView `json:"allocations"`
	Total       int64            `json:"total"`
}

type ListAllocationsUseCase struct {
	allocRepo allocation.Repository
	logger    logger.Interface
}

func NewListAllocationsUseCase(allocRepo allocation.Repository, logger logger.Interface) *ListAllocationsUseCase {
	return &ListAllocationsUseCase{allocRepo: allocRepo, logger: logger}
}

func (uc *ListAllocationsUseCase) Execute(ctx context.Context, query ListAllocationsQuery) (*ListAllocationsResult, error) {
	filter := allocation.ListFilter{
		Owner:    query.Owner,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status := allocation.Status(query.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("invalid allocation status: %s", query.Status)
		}
		filter.Status = &status
	}

	allocs, total, err := uc.allocRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	views := make([]AllocationView, 0, len(allocs))
	for _, a := range allocs {
		views = append(views, AllocationView{
			ID:          a.ID(),
			GID:         a.GID(),
			GroupName:   a.GroupName(),
			FilesetName: a.FilesetName(),
			Owner:       a.OwnerUsername(),
			Department:  a.Department(),
			Faculty:     a.Faculty(),
			QuotaBytes:  a.QuotaBytes(),
			UsedBytes:   a.UsedBytes(),
			Status:      a.Status().String(),
			CreatedAt:   a.CreatedAt().Format(time.RFC3339),
		})
	}

	return &ListAllocationsResult{Allocations: views, Total: total}, nil
}
