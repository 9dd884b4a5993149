package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/pkg/pagination"
	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := dbFor(ctx, r.db).Create(follow).Error; err != nil {
		return translate("failed to create follow", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	res := dbFor(ctx, r.db).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return translate("failed to delete follow", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete follow", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, translate("failed to check follow status", err)
	}
	return count > 0, nil
}

func (r *FollowRepository) CreateRequest(ctx context.Context, req *models.FollowRequest) error {
	if err := dbFor(ctx, r.db).Create(req).Error; err != nil {
		return translate("failed to create follow request", err)
	}
	return nil
}

func (r *FollowRepository) DeleteRequest(ctx context.Context, senderID, recipientID uuid.UUID) error {
	res := dbFor(ctx, r.db).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Delete(&models.FollowRequest{})
	if res.Error != nil {
		return translate("failed to delete follow request", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete follow request", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FollowRepository) RequestExists(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.FollowRequest{}).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Count(&count).Error; err != nil {
		return false, translate("failed to check follow request", err)
	}
	return count > 0, nil
}

func (r *FollowRepository) ListFollowers(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Follow, error) {
	var follows []*models.Follow
	q := dbFor(ctx, r.db).
		Preload("Follower").
		Where("following_id = ?", userID)
	q = keysetBefore(q, cursor)
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&follows).Error; err != nil {
		return nil, translate("failed to list followers", err)
	}
	return follows, nil
}

func (r *FollowRepository) ListFollowing(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Follow, error) {
	var follows []*models.Follow
	q := dbFor(ctx, r.db).
		Preload("Following").
		Where("follower_id = ?", userID)
	q = keysetBefore(q, cursor)
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&follows).Error; err != nil {
		return nil, translate("failed to list following", err)
	}
	return follows, nil
}

func (r *FollowRepository) ListRequests(ctx context.Context, recipientID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.FollowRequest, error) {
	var requests []*models.FollowRequest
	q := dbFor(ctx, r.db).
		Preload("Sender").
		Where("recipient_id = ?", recipientID)
	q = keysetBefore(q, cursor)
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&requests).Error; err != nil {
		return nil, translate("failed to list follow requests", err)
	}
	return requests, nil
}

// FollowingIDs reports which of the candidate users the viewer follows, in a
// single IN-query so list annotations never degrade into N+1 lookups.
func (r *FollowRepository) FollowingIDs(ctx context.Context, viewerID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(candidates))
	if len(candidates) == 0 {
		return result, nil
	}
	var ids []uuid.UUID
	if err := dbFor(ctx, r.db).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", viewerID, candidates).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, translate("failed to batch follow status", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, translate("failed to count followers", err)
	}
	return count, nil
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, translate("failed to count following", err)
	}
	return count, nil
}
