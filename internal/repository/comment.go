package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/pkg/pagination"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := dbFor(ctx, r.db).Create(comment).Error; err != nil {
		return translate("failed to create comment", err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := dbFor(ctx, r.db).Where("id = ?", id).First(&comment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, translate("failed to get comment", err)
	}
	return &comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := dbFor(ctx, r.db).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return translate("failed to delete comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete comment", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	q := dbFor(ctx, r.db).
		Preload("User").
		Where("post_id = ?", postID)
	q = keysetBefore(q, cursor)
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&comments).Error; err != nil {
		return nil, translate("failed to list comments", err)
	}
	return comments, nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	res := dbFor(ctx, r.db).Where("post_id = ?", postID).Delete(&models.Comment{})
	if res.Error != nil {
		return 0, translate("failed to delete post comments", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, translate("failed to count comments", err)
	}
	return count, nil
}

// CountForRecipient counts comments on posts addressed to userID; this backs
// the profile-level comment counter.
func (r *CommentRepository) CountForRecipient(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.recipient_id = ? AND posts.deleted_at IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, translate("failed to count profile comments", err)
	}
	return count, nil
}
