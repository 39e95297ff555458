package mappers

import (
	"fmt"

	"rdfstore/internal/domain/group"
	"rdfstore/internal/infrastructure/persistence/models"
)

// ResearchGroupMapper handles the conversion between domain entities and
// persistence models.
type ResearchGroupMapper interface {
	ToEntity(model *models.ResearchGroupModel) (*group.ResearchGroup, error)
	ToModel(entity *group.ResearchGroup) *models.ResearchGroupModel
}

type ResearchGroupMapperImpl struct{}

// NewResearchGroupMapper creates a new research group mapper.
func NewResearchGroupMapper() ResearchGroupMapper {
	return &ResearchGroupMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity.
func (m *ResearchGroupMapperImpl) ToEntity(model *models.ResearchGroupModel) (*group.ResearchGroup, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := group.ReconstructResearchGroup(
		model.ID,
		model.Name,
		model.Department,
		model.Faculty,
		model.OwnerUsername,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct research group entity: %w", err)
	}
	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *ResearchGroupMapperImpl) ToModel(entity *group.ResearchGroup) *models.ResearchGroupModel {
	if entity == nil {
		return nil
	}
	return &models.ResearchGroupModel{
		ID:            entity.ID(),
		Name:          entity.Name(),
		Department:    entity.Department(),
		Faculty:       entity.Faculty(),
		OwnerUsername: entity.OwnerUsername(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}
}
