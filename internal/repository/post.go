package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := dbFor(ctx, r.db).Create(post).Error; err != nil {
		return translate("failed to create post", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := dbFor(ctx, r.db).Where("id = ?", id).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, translate("failed to get post", err)
	}
	return &post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := dbFor(ctx, r.db).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return translate("failed to delete post", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete post", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *PostRepository) CreateStats(ctx context.Context, stats *models.PostStats) error {
	if err := dbFor(ctx, r.db).Create(stats).Error; err != nil {
		return translate("failed to create post stats", err)
	}
	return nil
}

func (r *PostRepository) GetStats(ctx context.Context, postID uuid.UUID) (*models.PostStats, error) {
	var stats models.PostStats
	if err := dbFor(ctx, r.db).Where("post_id = ?", postID).First(&stats).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, translate("failed to get post stats", err)
	}
	return &stats, nil
}

func (r *PostRepository) DeleteStats(ctx context.Context, postID uuid.UUID) error {
	if err := dbFor(ctx, r.db).Where("post_id = ?", postID).
		Delete(&models.PostStats{}).Error; err != nil {
		return translate("failed to delete post stats", err)
	}
	return nil
}

func (r *PostRepository) bumpStat(ctx context.Context, postID uuid.UUID, column string, delta int64) error {
	res := dbFor(ctx, r.db).Model(&models.PostStats{}).
		Where("post_id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return translate("failed to update post stats", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to update post stats", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *PostRepository) BumpLikeCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	return r.bumpStat(ctx, postID, "like_count", delta)
}

func (r *PostRepository) BumpCommentCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	return r.bumpStat(ctx, postID, "comment_count", delta)
}

// SetStats overwrites the counters with recounted absolutes; reconciler only.
func (r *PostRepository) SetStats(ctx context.Context, stats *models.PostStats) error {
	res := dbFor(ctx, r.db).Model(&models.PostStats{}).
		Where("post_id = ?", stats.PostID).
		UpdateColumns(map[string]interface{}{
			"like_count":    stats.LikeCount,
			"comment_count": stats.CommentCount,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return translate("failed to set post stats", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to set post stats", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *PostRepository) CountByRecipient(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Post{}).
		Where("recipient_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, translate("failed to count posts", err)
	}
	return count, nil
}

func (r *PostRepository) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	q := dbFor(ctx, r.db).Model(&models.Post{}).Order("id").Limit(limit)
	if after != uuid.Nil {
		q = q.Where("id > ?", after)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, translate("failed to list post ids", err)
	}
	return ids, nil
}
