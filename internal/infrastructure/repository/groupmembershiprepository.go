package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rdfstore/internal/domain/group"
	"rdfstore/internal/infrastructure/persistence/mappers"
	"rdfstore/internal/infrastructure/persistence/models"
	"rdfstore/internal/shared/db"
	"rdfstore/internal/shared/errors"
)

type GroupMembershipRepository struct {
	db     *gorm.DB
	mapper mappers.GroupMembershipMapper
}

func NewGroupMembershipRepository(gdb *gorm.DB) group.MembershipRepository {
	return &GroupMembershipRepository{
		db:     gdb,
		mapper: mappers.NewGroupMembershipMapper(),
	}
}

func (r *GroupMembershipRepository) Create(ctx context.Context, membership *group.Membership) error {
	model := r.mapper.ToModel(membership)
	conn := db.GetTxFromContext(ctx, r.db)
	if err := conn.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return group.ErrAlreadyMember
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}
	if membership.ID() == 0 {
		if err := membership.SetID(model.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *GroupMembershipRepository) Delete(ctx context.Context, id uint) error {
	conn := db.GetTxFromContext(ctx, r.db)
	result := conn.Where("id = ?", id).Delete(&models.GroupMembershipModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete membership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return group.ErrMembershipNotFound
	}
	return nil
}

func (r *GroupMembershipRepository) Get(ctx context.Context, allocationID uint, username string) (*group.Membership, error) {
	var model models.GroupMembershipModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.Where("allocation_id = ? AND username = ?", allocationID, username).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *GroupMembershipRepository) ListByAllocation(ctx context.Context, allocationID uint) ([]*group.Membership, error) {
	var membershipModels []*models.GroupMembershipModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.Where("allocation_id = ?", allocationID).
		Order("username ASC").
		Find(&membershipModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return r.mapper.ToEntities(membershipModels)
}

func (r *GroupMembershipRepository) ListExpiringOn(ctx context.Context, day time.Time) ([]*group.Membership, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var membershipModels []*models.GroupMembershipModel
	conn := db.GetTxFromContext(ctx, r.db)
	err := conn.Where("expires_at >= ? AND expires_at < ?", start, end).
		Order("id ASC").
		Find(&membershipModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring memberships: %w", err)
	}
	return r.mapper.ToEntities(membershipModels)
}
