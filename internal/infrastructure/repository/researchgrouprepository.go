package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rdfstore/internal/domain/group"
	"rdfstore/internal/infrastructure/persistence/mappers"
	"rdfstore/internal/infrastructure/persistence/models"
	"rdfstore/internal/shared/db"
	"rdfstore/internal/shared/errors"
)

type ResearchGroupRepository struct {
	db     *gorm.DB
	mapper mappers.ResearchGroupMapper
}

func NewResearchGroupRepository(gdb *gorm.DB) group.Repository {
	return &ResearchGroupRepository{
		db:     gdb,
		mapper: mappers.NewResearchGroupMapper(),
	}
}

func (r *ResearchGroupRepository) Create(ctx context.Context, grp *group.ResearchGroup) error {
	model := r.mapper.ToModel(grp)
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return group.ErrGroupNameTaken
		}
		return fmt.Errorf("failed to create research group: %w", err)
	}
	if grp.ID() == 0 {
		if err := grp.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ResearchGroupRepository) GetByID(ctx context.Context, id uint) (*group.ResearchGroup, error) {
	var model models.ResearchGroupModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get research group by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ResearchGroupRepository) GetByName(ctx context.Context, name string) (*group.ResearchGroup, error) {
	var model models.ResearchGroupModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.Where("name = ?", name).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get research group by name: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *ResearchGroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.Model(&models.ResearchGroupModel{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check research group name: %w", err)
	}
	return count > 0, nil
}
