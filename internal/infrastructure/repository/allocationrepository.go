package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/infrastructure/persistence/mappers"
	"rdfstore/internal/infrastructure/persistence/models"
	"rdfstore/internal/shared/db"
	"rdfstore/internal/shared/errors"
)

type AllocationRepository struct {
	db     *gorm.DB
	mapper mappers.AllocationMapper
}

func NewAllocationRepository(gdb *gorm.DB) allocation.Repository {
	return &AllocationRepository{
		db:     gdb,
		mapper: mappers.NewAllocationMapper(),
	}
}

func (r *AllocationRepository) Create(ctx context.Context, alloc *allocation.Allocation) error {
	model, err := r.mapper.ToModel(alloc)
	if err != nil {
		return err
	}
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return allocation.ErrDuplicateGID
		}
		return fmt.Errorf("failed to create allocation: %w", err)
	}
	if alloc.ID() == 0 {
		if err := alloc.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *AllocationRepository) Update(ctx context.Context, alloc *allocation.Allocation) error {
	model, err := r.mapper.ToModel(alloc)
	if err != nil {
		return err
	}
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update allocation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return allocation.ErrNotFound
	}
	return nil
}

func (r *AllocationRepository) GetByID(ctx context.Context, id uint) (*allocation.Allocation, error) {
	var model models.AllocationModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allocation by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *AllocationRepository) GetByGID(ctx context.Context, gid uint) (*allocation.Allocation, error) {
	var model models.AllocationModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.Where("gid = ?", gid).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allocation by GID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *AllocationRepository) ListActive(ctx context.Context, ids []uint) ([]*allocation.Allocation, error) {
	var allocModels []*models.AllocationModel
	conn := db.GetTxFromContext(ctx, r.db)

	query := conn.Where("status = ?", allocation.StatusActive.String())
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	if err := query.Order("id ASC").Find(&allocModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list active allocations: %w", err)
	}
	return r.mapper.ToEntities(allocModels)
}

func (r *AllocationRepository) List(ctx context.Context, filter allocation.ListFilter) ([]*allocation.Allocation, int64, error) {
	conn := db.GetTxFromContext(ctx, r.db)

	query := conn.Model(&models.AllocationModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Owner != "" {
		query = query.Where("owner_username = ?", filter.Owner)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count allocations: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var allocModels []*models.AllocationModel
	err := query.Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&allocModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list allocations: %w", err)
	}

	entities, err := r.mapper.ToEntities(allocModels)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}
