package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"gorm.io/gorm"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Create(ctx context.Context, block *models.Block) error {
	if err := dbFor(ctx, r.db).Create(block).Error; err != nil {
		return translate("failed to create block", err)
	}
	return nil
}

func (r *BlockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	res := dbFor(ctx, r.db).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if res.Error != nil {
		return translate("failed to delete block", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete block", gorm.ErrRecordNotFound)
	}
	return nil
}

// ExistsBetween checks both directions: a block either way suppresses the
// pair's follow/friend interactions.
func (r *BlockRepository) ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error; err != nil {
		return false, translate("failed to check block", err)
	}
	return count > 0, nil
}
