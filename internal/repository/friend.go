package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/pkg/pagination"
	"gorm.io/gorm"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// Create inserts the undirected edge in canonical order; the unique (low,
// high) index rejects a concurrent duplicate regardless of argument order.
func (r *FriendRepository) Create(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	low, high := models.CanonicalPair(a, b)
	friendship := &models.Friendship{UserLowID: low, UserHighID: high}
	if err := dbFor(ctx, r.db).Create(friendship).Error; err != nil {
		return nil, translate("failed to create friendship", err)
	}
	return friendship, nil
}

func (r *FriendRepository) Delete(ctx context.Context, a, b uuid.UUID) error {
	low, high := models.CanonicalPair(a, b)
	res := dbFor(ctx, r.db).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return translate("failed to delete friendship", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete friendship", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FriendRepository) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	low, high := models.CanonicalPair(a, b)
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Friendship{}).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Count(&count).Error; err != nil {
		return false, translate("failed to check friendship", err)
	}
	return count > 0, nil
}

func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	if err := dbFor(ctx, r.db).Create(req).Error; err != nil {
		return translate("failed to create friend request", err)
	}
	return nil
}

func (r *FriendRepository) DeleteRequest(ctx context.Context, senderID, recipientID uuid.UUID) error {
	res := dbFor(ctx, r.db).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return translate("failed to delete friend request", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete friend request", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *FriendRepository) RequestExists(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.FriendRequest{}).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Count(&count).Error; err != nil {
		return false, translate("failed to check friend request", err)
	}
	return count > 0, nil
}

// ListFriends pages the edges touching userID; the caller resolves which side
// of each edge is the friend.
func (r *FriendRepository) ListFriends(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Friendship, error) {
	var friendships []*models.Friendship
	q := dbFor(ctx, r.db).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID)
	q = keysetBefore(q, cursor)
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&friendships).Error; err != nil {
		return nil, translate("failed to list friendships", err)
	}
	return friendships, nil
}

func (r *FriendRepository) ListRequests(ctx context.Context, recipientID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.FriendRequest, error) {
	var requests []*models.FriendRequest
	q := dbFor(ctx, r.db).
		Preload("Sender").
		Where("recipient_id = ?", recipientID)
	q = keysetBefore(q, cursor)
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&requests).Error; err != nil {
		return nil, translate("failed to list friend requests", err)
	}
	return requests, nil
}

// RequestedIDs reports which of the candidate users have a pending request
// from the viewer, batched like FollowRepository.FollowingIDs.
func (r *FriendRepository) RequestedIDs(ctx context.Context, viewerID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(candidates))
	if len(candidates) == 0 {
		return result, nil
	}
	var ids []uuid.UUID
	if err := dbFor(ctx, r.db).Model(&models.FriendRequest{}).
		Where("sender_id = ? AND recipient_id IN ?", viewerID, candidates).
		Pluck("recipient_id", &ids).Error; err != nil {
		return nil, translate("failed to batch friend request status", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *FriendRepository) CountFriends(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFor(ctx, r.db).Model(&models.Friendship{}).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Count(&count).Error; err != nil {
		return 0, translate("failed to count friends", err)
	}
	return count, nil
}
