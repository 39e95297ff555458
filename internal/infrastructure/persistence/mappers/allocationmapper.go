package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/infrastructure/persistence/models"
)

// AllocationMapper handles the conversion between domain entities and
// persistence models.
type AllocationMapper interface {
	ToEntity(model *models.AllocationModel) (*allocation.Allocation, error)
	ToModel(entity *allocation.Allocation) (*models.AllocationModel, error)
	ToEntities(models []*models.AllocationModel) ([]*allocation.Allocation, error)
}

type AllocationMapperImpl struct{}

// NewAllocationMapper creates a new allocation mapper.
func NewAllocationMapper() AllocationMapper {
	return &AllocationMapperImpl{}
}

// ownerSnapshot is the JSON shape stored in the owner_profile column.
type ownerSnapshot struct {
	Username   string `json:"username"`
	UID        uint   `json:"uid"`
	Department string `json:"department"`
	Faculty    string `json:"faculty,omitempty"`
}

// ToEntity converts a persistence model to a domain entity.
func (m *AllocationMapperImpl) ToEntity(model *models.AllocationModel) (*allocation.Allocation, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := allocation.ReconstructAllocation(
		model.ID,
		model.GID,
		model.GroupName,
		model.FilesetName,
		model.OwnerUsername,
		model.OwnerUID,
		model.Department,
		model.Faculty,
		model.QuotaBytes,
		model.UsedBytes,
		model.Status,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct allocation entity: %w", err)
	}
	return entity, nil
}

// ToModel converts a domain entity to a persistence model.
func (m *AllocationMapperImpl) ToModel(entity *allocation.Allocation) (*models.AllocationModel, error) {
	if entity == nil {
		return nil, nil
	}

	snapshot, err := json.Marshal(ownerSnapshot{
		Username:   entity.OwnerUsername(),
		UID:        entity.OwnerUID(),
		Department: entity.Department(),
		Faculty:    entity.Faculty(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize owner snapshot: %w", err)
	}

	return &models.AllocationModel{
		ID:            entity.ID(),
		GID:           entity.GID(),
		GroupName:     entity.GroupName(),
		FilesetName:   entity.FilesetName(),
		OwnerUsername: entity.OwnerUsername(),
		OwnerUID:      entity.OwnerUID(),
		Department:    entity.Department(),
		Faculty:       entity.Faculty(),
		QuotaBytes:    entity.QuotaBytes(),
		UsedBytes:     entity.UsedBytes(),
		Status:        entity.Status().String(),
		OwnerProfile:  datatypes.JSON(snapshot),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities.
func (m *AllocationMapperImpl) ToEntities(allocModels []*models.AllocationModel) ([]*allocation.Allocation, error) {
	entities := make([]*allocation.Allocation, 0, len(allocModels))
	for _, model := range allocModels {
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
