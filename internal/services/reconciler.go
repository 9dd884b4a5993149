package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/pkg/logger"
)

// The reconciler consumes a wider slice of the repositories than the
// request-path services: recounts, absolute overwrites and id sweeps.
type ReconcilerUserStore interface {
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*models.ProfileStats, error)
	SetStats(ctx context.Context, stats *models.ProfileStats) error
}

type ReconcilerFollowStore interface {
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ReconcilerFriendStore interface {
	CountFriends(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ReconcilerPostStore interface {
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	GetStats(ctx context.Context, postID uuid.UUID) (*models.PostStats, error)
	SetStats(ctx context.Context, stats *models.PostStats) error
	CountByRecipient(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ReconcilerLikeStore interface {
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type ReconcilerCommentStore interface {
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
	CountForRecipient(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ReconcilerService is the operational safety net for the counter
// invariant: it recounts the live detail rows and overwrites any stats row
// that drifted. The request path never needs it when healthy; it exists for
// crash recovery and operator-introduced damage.
type ReconcilerService struct {
	users    ReconcilerUserStore
	follows  ReconcilerFollowStore
	friends  ReconcilerFriendStore
	posts    ReconcilerPostStore
	likes    ReconcilerLikeStore
	comments ReconcilerCommentStore
	tx       Transactor
	cache    StatsCache
	logger   *logger.Logger
}

func NewReconcilerService(users ReconcilerUserStore, follows ReconcilerFollowStore, friends ReconcilerFriendStore, posts ReconcilerPostStore, likes ReconcilerLikeStore, comments ReconcilerCommentStore, tx Transactor, cache StatsCache, logger *logger.Logger) *ReconcilerService {
	return &ReconcilerService{
		users:    users,
		follows:  follows,
		friends:  friends,
		posts:    posts,
		likes:    likes,
		comments: comments,
		tx:       tx,
		cache:    cache,
		logger:   logger,
	}
}

// ReconcileProfile recounts one profile's detail rows and repairs the stats
// row if it drifted. Returns whether a repair was written.
func (s *ReconcilerService) ReconcileProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	repaired := false
	err := s.tx.Atomic(ctx, func(ctx context.Context) error {
		stats, err := s.users.GetStats(ctx, userID)
		if err != nil {
			return storeError(err)
		}
		if stats == nil {
			return ErrProfileNotFound
		}

		followers, err := s.follows.CountFollowers(ctx, userID)
		if err != nil {
			return storeError(err)
		}
		following, err := s.follows.CountFollowing(ctx, userID)
		if err != nil {
			return storeError(err)
		}
		friendCount, err := s.friends.CountFriends(ctx, userID)
		if err != nil {
			return storeError(err)
		}
		postCount, err := s.posts.CountByRecipient(ctx, userID)
		if err != nil {
			return storeError(err)
		}
		commentCount, err := s.comments.CountForRecipient(ctx, userID)
		if err != nil {
			return storeError(err)
		}

		if stats.FollowerCount == followers &&
			stats.FollowingCount == following &&
			stats.FriendCount == friendCount &&
			stats.PostCount == postCount &&
			stats.CommentCount == commentCount {
			return nil
		}

		s.logger.WithFields(map[string]interface{}{
			"user_id":         userID.String(),
			"follower_count":  stats.FollowerCount,
			"followers_live":  followers,
			"following_count": stats.FollowingCount,
			"following_live":  following,
			"friend_count":    stats.FriendCount,
			"friends_live":    friendCount,
		}).Warn("Profile stats drift detected")

		repaired = true
		return s.users.SetStats(ctx, &models.ProfileStats{
			UserID:         userID,
			FollowerCount:  followers,
			FollowingCount: following,
			FriendCount:    friendCount,
			PostCount:      postCount,
			CommentCount:   commentCount,
		})
	})
	if err != nil {
		return false, err
	}
	if repaired {
		if err := s.cache.InvalidateProfiles(ctx, userID); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate profile stats cache")
		}
	}
	return repaired, nil
}

func (s *ReconcilerService) ReconcilePost(ctx context.Context, postID uuid.UUID) (bool, error) {
	repaired := false
	err := s.tx.Atomic(ctx, func(ctx context.Context) error {
		stats, err := s.posts.GetStats(ctx, postID)
		if err != nil {
			return storeError(err)
		}
		if stats == nil {
			return ErrPostNotFound
		}

		likeCount, err := s.likes.CountByPost(ctx, postID)
		if err != nil {
			return storeError(err)
		}
		commentCount, err := s.comments.CountByPost(ctx, postID)
		if err != nil {
			return storeError(err)
		}

		if stats.LikeCount == likeCount && stats.CommentCount == commentCount {
			return nil
		}

		s.logger.WithFields(map[string]interface{}{
			"post_id":       postID.String(),
			"like_count":    stats.LikeCount,
			"likes_live":    likeCount,
			"comment_count": stats.CommentCount,
			"comments_live": commentCount,
		}).Warn("Post stats drift detected")

		repaired = true
		return s.posts.SetStats(ctx, &models.PostStats{
			PostID:       postID,
			LikeCount:    likeCount,
			CommentCount: commentCount,
		})
	})
	if err != nil {
		return false, err
	}
	if repaired {
		if err := s.cache.InvalidatePosts(ctx, postID); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate post stats cache")
		}
	}
	return repaired, nil
}

// SweepProfiles walks every profile in id order and reconciles each one.
// Individual failures are logged and skipped so one bad row cannot stall the
// sweep.
func (s *ReconcilerService) SweepProfiles(ctx context.Context, batch int) (int, error) {
	repairedTotal := 0
	after := uuid.Nil
	for {
		ids, err := s.users.ListIDs(ctx, after, batch)
		if err != nil {
			return repairedTotal, storeError(err)
		}
		if len(ids) == 0 {
			return repairedTotal, nil
		}
		for _, id := range ids {
			repaired, err := s.ReconcileProfile(ctx, id)
			if err != nil {
				s.logger.WithError(err).WithField("user_id", id.String()).
					Error("Failed to reconcile profile stats")
				continue
			}
			if repaired {
				repairedTotal++
			}
		}
		after = ids[len(ids)-1]
	}
}

func (s *ReconcilerService) SweepPosts(ctx context.Context, batch int) (int, error) {
	repairedTotal := 0
	after := uuid.Nil
	for {
		ids, err := s.posts.ListIDs(ctx, after, batch)
		if err != nil {
			return repairedTotal, storeError(err)
		}
		if len(ids) == 0 {
			return repairedTotal, nil
		}
		for _, id := range ids {
			repaired, err := s.ReconcilePost(ctx, id)
			if err != nil {
				s.logger.WithError(err).WithField("post_id", id.String()).
					Error("Failed to reconcile post stats")
				continue
			}
			if repaired {
				repairedTotal++
			}
		}
		after = ids[len(ids)-1]
	}
}
