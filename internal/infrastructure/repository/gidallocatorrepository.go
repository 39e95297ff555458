package repository

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"rdfstore/internal/domain/allocation"
	"rdfstore/internal/infrastructure/persistence/models"
)

// GIDAllocatorRepository hands out GIDs from a single-row counter table. The
// increment runs as one atomic UPDATE inside a transaction, so concurrent
// provisioning runs can never take the same GID. An in-process mutex keeps
// the transactions short instead of stacking them up on the row lock. GIDs
// are never reclaimed: a provisioning run that takes a GID and then fails
// leaves a gap in the range.
type GIDAllocatorRepository struct {
	db      *gorm.DB
	floor   uint
	ceiling uint
	mu      sync.Mutex
}

func NewGIDAllocatorRepository(gdb *gorm.DB, floor, ceiling uint) allocation.GIDAllocator {
	return &GIDAllocatorRepository{
		db:      gdb,
		floor:   floor,
		ceiling: ceiling,
	}
}

func (r *GIDAllocatorRepository) Next(ctx context.Context) (uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var gid uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter models.GIDCounterModel
		err := tx.First(&counter).Error
		if err == gorm.ErrRecordNotFound {
			counter = models.GIDCounterModel{NextGID: r.floor}
			if err := tx.Create(&counter).Error; err != nil {
				return fmt.Errorf("failed to initialize gid counter: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to read gid counter: %w", err)
		}

		if r.ceiling > 0 && counter.NextGID > r.ceiling {
			return allocation.ErrGIDExhausted
		}

		// Atomic conditional increment; the row lock it takes is held to
		// commit, which closes the window between read and write for
		// out-of-process competitors.
		result := tx.Model(&models.GIDCounterModel{}).
			Where("id = ? AND next_gid = ?", counter.ID, counter.NextGID).
			Update("next_gid", gorm.Expr("next_gid + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to advance gid counter: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("gid counter moved underneath the transaction")
		}

		gid = counter.NextGID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return gid, nil
}
