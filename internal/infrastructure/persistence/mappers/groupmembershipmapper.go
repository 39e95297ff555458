package mappers

import (
	"fmt"
	"time"

	"rdfstore/internal/domain/group"
	"rdfstore/internal/infrastructure/persistence/models"
)

// GroupMembershipMapper handles the conversion between domain entities and
// persistence models.
type GroupMembershipMapper interface {
	ToEntity(model *models.GroupMembershipModel) (*group.Membership, error)
	ToModel(entity *group.Membership) *models.GroupMembershipModel
	ToEntities(models []*models.GroupMembershipModel) ([]*group.Membership, error)
}

type GroupMembershipMapperImpl struct{}

// NewGroupMembershipMapper creates a new membership mapper.
func NewGroupMembershipMapper() GroupMembershipMapper {
	return &GroupMembershipMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *GroupMembershipMapperImpl) ToEntity(model *models.GroupMembershipModel) (*group.Membership, error) {
	if model == nil {
		return nil, nil
	}

	var expiresAt time.Time
	if model.ExpiresAt != nil {
		expiresAt = *model.ExpiresAt
	}

	entity, err := group.ReconstructMembership(model.ID, model.AllocationID, model.Username, expiresAt, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct membership entity: %w", err)
	}
	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *GroupMembershipMapperImpl) ToModel(entity *group.Membership) *models.GroupMembershipModel {
	if entity == nil {
		return nil
	}

	var expiresAt *time.Time
	if !entity.ExpiresAt().IsZero() {
		val := entity.ExpiresAt()
		expiresAt = &val
	}

	return &models.GroupMembershipModel{
		ID:           entity.ID(),
		AllocationID: entity.AllocationID(),
		Username:     entity.Username(),
		ExpiresAt:    expiresAt,
		CreatedAt:    entity.CreatedAt(),
	}
}

// ToEntities converts multiple persistence models to domain entities.
func (m *GroupMembershipMapperImpl) ToEntities(membershipModels []*models.GroupMembershipModel) ([]*group.Membership, error) {
	entities := make([]*group.Membership, 0, len(membershipModels))
	for _, model := range membershipModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map model ID %d: %w", model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
