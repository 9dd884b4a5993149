package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	if err := dbFor(ctx, r.db).Create(like).Error; err != nil {
		return translate("failed to create like", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	res := dbFor(ctx, r.db).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return translate("failed to delete like", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete like", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *LikeRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, translate("failed to check like status", err)
	}
	return count > 0, nil
}

func (r *LikeRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	res := dbFor(ctx, r.db).Where("post_id = ?", postID).Delete(&models.Like{})
	if res.Error != nil {
		return 0, translate("failed to delete post likes", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *LikeRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, translate("failed to count likes", err)
	}
	return count, nil
}
