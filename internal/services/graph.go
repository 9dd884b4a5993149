package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/internal/repository"
	"github.com/socialbase/socialbase/pkg/logger"
	"github.com/socialbase/socialbase/pkg/pagination"
	"github.com/socialbase/socialbase/pkg/queue"
)

// SocialGraphService orchestrates follow/friend/block transitions and keeps
// the profile counters in step with the edge rows. Every mutation that pairs
// an edge write with counter bumps runs inside one store transaction; the
// unique constraints on the edge tables are what settle concurrent races.
type SocialGraphService struct {
	users    UserStore
	follows  FollowStore
	friends  FriendStore
	blocks   BlockStore
	tx       Transactor
	cache    StatsCache
	producer Publisher
	logger   *logger.Logger
}

func NewSocialGraphService(users UserStore, follows FollowStore, friends FriendStore, blocks BlockStore, tx Transactor, cache StatsCache, producer Publisher, logger *logger.Logger) *SocialGraphService {
	return &SocialGraphService{
		users:    users,
		follows:  follows,
		friends:  friends,
		blocks:   blocks,
		tx:       tx,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// RelationshipItem is one entry of a paginated graph listing, annotated with
// the viewer's own relationship to the listed user.
type RelationshipItem struct {
	User              *models.User `json:"user"`
	Since             time.Time    `json:"since"`
	IsFollowing       bool         `json:"is_following"`
	IsFriendRequested bool         `json:"is_friend_requested"`
}

func parsePair(a, b string) (uuid.UUID, uuid.UUID, error) {
	aid, err := uuid.Parse(a)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid user ID: %w", err)
	}
	bid, err := uuid.Parse(b)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid user ID: %w", err)
	}
	if aid == bid {
		return uuid.Nil, uuid.Nil, ErrSelfRelation
	}
	return aid, bid, nil
}

// Follow creates a follow edge, or a follow request when the recipient's
// account is private. The edge insert and both counter bumps commit together.
func (s *SocialGraphService) Follow(ctx context.Context, senderID, recipientID string) error {
	sender, recipient, err := parsePair(senderID, recipientID)
	if err != nil {
		return err
	}

	blocked, err := s.blocks.ExistsBetween(ctx, sender, recipient)
	if err != nil {
		return storeError(err)
	}
	if blocked {
		return ErrBlocked
	}

	target, err := s.users.GetByID(ctx, recipient)
	if err != nil {
		return storeError(err)
	}
	if target == nil {
		return ErrUserNotFound
	}

	following, err := s.follows.Exists(ctx, sender, recipient)
	if err != nil {
		return storeError(err)
	}
	if following {
		return ErrAlreadyFollowing
	}

	if target.IsPrivate {
		requested, err := s.follows.RequestExists(ctx, sender, recipient)
		if err != nil {
			return storeError(err)
		}
		if requested {
			return ErrAlreadyRequested
		}
		req := &models.FollowRequest{SenderID: sender, RecipientID: recipient}
		if err := s.follows.CreateRequest(ctx, req); err != nil {
			return mapStoreErr(err, nil, ErrAlreadyRequested)
		}
		s.logger.WithFields(map[string]interface{}{
			"sender_id":    senderID,
			"recipient_id": recipientID,
		}).Info("Follow request created")
		return nil
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		follow := &models.Follow{FollowerID: sender, FollowingID: recipient}
		if err := s.follows.Create(ctx, follow); err != nil {
			return mapStoreErr(err, nil, ErrAlreadyFollowing)
		}
		if err := s.users.BumpFollowingCount(ctx, sender, 1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		if err := s.users.BumpFollowerCount(ctx, recipient, 1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterRelationshipChange(ctx, queue.EventFollowCreated, sender, recipient)
	return nil
}

func (s *SocialGraphService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	follower, followee, err := parsePair(followerID, followeeID)
	if err != nil {
		return err
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.follows.Delete(ctx, follower, followee); err != nil {
			return mapStoreErr(err, ErrFollowNotFound, nil)
		}
		if err := s.users.BumpFollowingCount(ctx, follower, -1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		if err := s.users.BumpFollowerCount(ctx, followee, -1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterRelationshipChange(ctx, queue.EventFollowRemoved, follower, followee)
	return nil
}

// AcceptFollowRequest turns a pending request into an edge: the request
// deletion, edge insert and counter bumps are one transaction.
func (s *SocialGraphService) AcceptFollowRequest(ctx context.Context, senderID, recipientID string) error {
	sender, recipient, err := parsePair(senderID, recipientID)
	if err != nil {
		return err
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.follows.DeleteRequest(ctx, sender, recipient); err != nil {
			return mapStoreErr(err, ErrFollowRequestNotFound, nil)
		}
		follow := &models.Follow{FollowerID: sender, FollowingID: recipient}
		if err := s.follows.Create(ctx, follow); err != nil {
			return mapStoreErr(err, nil, ErrAlreadyFollowing)
		}
		if err := s.users.BumpFollowingCount(ctx, sender, 1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		if err := s.users.BumpFollowerCount(ctx, recipient, 1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterRelationshipChange(ctx, queue.EventFollowCreated, sender, recipient)
	return nil
}

func (s *SocialGraphService) DeclineFollowRequest(ctx context.Context, senderID, recipientID string) error {
	sender, recipient, err := parsePair(senderID, recipientID)
	if err != nil {
		return err
	}
	if err := s.follows.DeleteRequest(ctx, sender, recipient); err != nil {
		return mapStoreErr(err, ErrFollowRequestNotFound, nil)
	}
	return nil
}

// CancelFollowRequest is the sender withdrawing their own pending request.
func (s *SocialGraphService) CancelFollowRequest(ctx context.Context, senderID, recipientID string) error {
	return s.DeclineFollowRequest(ctx, senderID, recipientID)
}

// SendFriendRequest inserts a pending request, except when the recipient
// already has one pending in the opposite direction: that call is the mutual
// consent, so it resolves to a friendship instead of a second request. The
// returned bool reports whether a friendship was formed.
func (s *SocialGraphService) SendFriendRequest(ctx context.Context, senderID, recipientID string) (bool, error) {
	sender, recipient, err := parsePair(senderID, recipientID)
	if err != nil {
		return false, err
	}

	blocked, err := s.blocks.ExistsBetween(ctx, sender, recipient)
	if err != nil {
		return false, storeError(err)
	}
	if blocked {
		return false, ErrBlocked
	}

	friends, err := s.friends.Exists(ctx, sender, recipient)
	if err != nil {
		return false, storeError(err)
	}
	if friends {
		return false, ErrAlreadyFriends
	}

	reverse, err := s.friends.RequestExists(ctx, recipient, sender)
	if err != nil {
		return false, storeError(err)
	}
	if reverse {
		if err := s.acceptFriendRequestTx(ctx, recipient, sender); err != nil {
			return false, err
		}
		s.afterRelationshipChange(ctx, queue.EventFriendCreated, sender, recipient)
		return true, nil
	}

	req := &models.FriendRequest{SenderID: sender, RecipientID: recipient}
	if err := s.friends.CreateRequest(ctx, req); err != nil {
		return false, mapStoreErr(err, nil, ErrAlreadyRequested)
	}
	s.logger.WithFields(map[string]interface{}{
		"sender_id":    senderID,
		"recipient_id": recipientID,
	}).Info("Friend request created")
	return false, nil
}

// acceptFriendRequestTx consumes the pending request senderID->recipientID
// and forms the friendship, bumping both friend counters atomically.
func (s *SocialGraphService) acceptFriendRequestTx(ctx context.Context, senderID, recipientID uuid.UUID) error {
	return s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.friends.DeleteRequest(ctx, senderID, recipientID); err != nil {
			return mapStoreErr(err, ErrFriendRequestNotFound, nil)
		}
		if _, err := s.friends.Create(ctx, senderID, recipientID); err != nil {
			return mapStoreErr(err, nil, ErrAlreadyFriends)
		}
		if err := s.users.BumpFriendCount(ctx, senderID, 1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		if err := s.users.BumpFriendCount(ctx, recipientID, 1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		return nil
	})
}

func (s *SocialGraphService) AcceptFriendRequest(ctx context.Context, senderID, recipientID string) error {
	sender, recipient, err := parsePair(senderID, recipientID)
	if err != nil {
		return err
	}
	if err := s.acceptFriendRequestTx(ctx, sender, recipient); err != nil {
		return err
	}
	s.afterRelationshipChange(ctx, queue.EventFriendCreated, sender, recipient)
	return nil
}

func (s *SocialGraphService) DeclineFriendRequest(ctx context.Context, senderID, recipientID string) error {
	sender, recipient, err := parsePair(senderID, recipientID)
	if err != nil {
		return err
	}
	if err := s.friends.DeleteRequest(ctx, sender, recipient); err != nil {
		return mapStoreErr(err, ErrFriendRequestNotFound, nil)
	}
	return nil
}

func (s *SocialGraphService) CancelFriendRequest(ctx context.Context, senderID, recipientID string) error {
	return s.DeclineFriendRequest(ctx, senderID, recipientID)
}

func (s *SocialGraphService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	user, friend, err := parsePair(userID, friendID)
	if err != nil {
		return err
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.friends.Delete(ctx, user, friend); err != nil {
			return mapStoreErr(err, ErrFriendshipNotFound, nil)
		}
		if err := s.users.BumpFriendCount(ctx, user, -1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		if err := s.users.BumpFriendCount(ctx, friend, -1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterRelationshipChange(ctx, queue.EventFriendRemoved, user, friend)
	return nil
}

// Block inserts the block edge and, in the same transaction, tears down
// whatever relationship the pair had: follow edges in both directions,
// pending follow/friend requests and the friendship, each with its counter
// adjustment. A block supersedes any prior relationship.
func (s *SocialGraphService) Block(ctx context.Context, blockerID, blockedID string) error {
	blocker, blocked, err := parsePair(blockerID, blockedID)
	if err != nil {
		return err
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		block := &models.Block{BlockerID: blocker, BlockedID: blocked}
		if err := s.blocks.Create(ctx, block); err != nil {
			return mapStoreErr(err, nil, ErrAlreadyBlocked)
		}

		for _, pair := range [][2]uuid.UUID{{blocker, blocked}, {blocked, blocker}} {
			removed, err := s.removeFollowEdge(ctx, pair[0], pair[1])
			if err != nil {
				return err
			}
			if removed {
				if err := s.users.BumpFollowingCount(ctx, pair[0], -1); err != nil {
					return mapStoreErr(err, ErrProfileNotFound, nil)
				}
				if err := s.users.BumpFollowerCount(ctx, pair[1], -1); err != nil {
					return mapStoreErr(err, ErrProfileNotFound, nil)
				}
			}
			if err := s.discardRequests(ctx, pair[0], pair[1]); err != nil {
				return err
			}
		}

		removed, err := s.removeFriendEdge(ctx, blocker, blocked)
		if err != nil {
			return err
		}
		if removed {
			if err := s.users.BumpFriendCount(ctx, blocker, -1); err != nil {
				return mapStoreErr(err, ErrProfileNotFound, nil)
			}
			if err := s.users.BumpFriendCount(ctx, blocked, -1); err != nil {
				return mapStoreErr(err, ErrProfileNotFound, nil)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterRelationshipChange(ctx, queue.EventBlockCreated, blocker, blocked)
	return nil
}

func (s *SocialGraphService) Unblock(ctx context.Context, blockerID, blockedID string) error {
	blocker, blocked, err := parsePair(blockerID, blockedID)
	if err != nil {
		return err
	}
	if err := s.blocks.Delete(ctx, blocker, blocked); err != nil {
		return mapStoreErr(err, ErrBlockNotFound, nil)
	}
	return nil
}

func (s *SocialGraphService) removeFollowEdge(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	err := s.follows.Delete(ctx, followerID, followingID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, storeError(err)
}

func (s *SocialGraphService) removeFriendEdge(ctx context.Context, a, b uuid.UUID) (bool, error) {
	err := s.friends.Delete(ctx, a, b)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, storeError(err)
}

// discardRequests drops any pending follow/friend request sender->recipient;
// absence is not an error here.
func (s *SocialGraphService) discardRequests(ctx context.Context, senderID, recipientID uuid.UUID) error {
	if err := s.follows.DeleteRequest(ctx, senderID, recipientID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError(err)
	}
	if err := s.friends.DeleteRequest(ctx, senderID, recipientID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError(err)
	}
	return nil
}

func (s *SocialGraphService) ListFollowers(ctx context.Context, userID, viewerID string, cursor *pagination.Cursor, limit int) (*pagination.Page[RelationshipItem], error) {
	user, viewer, err := parseUserAndViewer(userID, viewerID)
	if err != nil {
		return nil, err
	}
	limit = pagination.ClampLimit(limit)

	follows, err := s.follows.ListFollowers(ctx, user, cursor, limit)
	if err != nil {
		return nil, storeError(err)
	}
	page := pagination.NewPage(follows, limit, func(f *models.Follow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: f.CreatedAt, ID: f.ID}
	})

	users := make([]*models.User, len(page.Items))
	since := make([]time.Time, len(page.Items))
	for i, f := range page.Items {
		follower := f.Follower
		users[i] = &follower
		since[i] = f.CreatedAt
	}
	return s.annotatePage(ctx, viewer, users, since, page.NextCursor)
}

func (s *SocialGraphService) ListFollowing(ctx context.Context, userID, viewerID string, cursor *pagination.Cursor, limit int) (*pagination.Page[RelationshipItem], error) {
	user, viewer, err := parseUserAndViewer(userID, viewerID)
	if err != nil {
		return nil, err
	}
	limit = pagination.ClampLimit(limit)

	follows, err := s.follows.ListFollowing(ctx, user, cursor, limit)
	if err != nil {
		return nil, storeError(err)
	}
	page := pagination.NewPage(follows, limit, func(f *models.Follow) pagination.Cursor {
		return pagination.Cursor{CreatedAt: f.CreatedAt, ID: f.ID}
	})

	users := make([]*models.User, len(page.Items))
	since := make([]time.Time, len(page.Items))
	for i, f := range page.Items {
		followee := f.Following
		users[i] = &followee
		since[i] = f.CreatedAt
	}
	return s.annotatePage(ctx, viewer, users, since, page.NextCursor)
}

func (s *SocialGraphService) ListFriends(ctx context.Context, userID, viewerID string, cursor *pagination.Cursor, limit int) (*pagination.Page[RelationshipItem], error) {
	user, viewer, err := parseUserAndViewer(userID, viewerID)
	if err != nil {
		return nil, err
	}
	limit = pagination.ClampLimit(limit)

	friendships, err := s.friends.ListFriends(ctx, user, cursor, limit)
	if err != nil {
		return nil, storeError(err)
	}
	page := pagination.NewPage(friendships, limit, func(f *models.Friendship) pagination.Cursor {
		return pagination.Cursor{CreatedAt: f.CreatedAt, ID: f.ID}
	})

	// The edge stores a canonical pair; resolve the side that is not the
	// listed user, then hydrate in one batched lookup.
	otherIDs := make([]uuid.UUID, len(page.Items))
	since := make([]time.Time, len(page.Items))
	for i, f := range page.Items {
		if f.UserLowID == user {
			otherIDs[i] = f.UserHighID
		} else {
			otherIDs[i] = f.UserLowID
		}
		since[i] = f.CreatedAt
	}
	fetched, err := s.users.GetByIDs(ctx, otherIDs)
	if err != nil {
		return nil, storeError(err)
	}
	byID := make(map[uuid.UUID]*models.User, len(fetched))
	for _, u := range fetched {
		byID[u.ID] = u
	}
	users := make([]*models.User, 0, len(otherIDs))
	kept := make([]time.Time, 0, len(otherIDs))
	for i, id := range otherIDs {
		if u, ok := byID[id]; ok {
			users = append(users, u)
			kept = append(kept, since[i])
		}
	}
	return s.annotatePage(ctx, viewer, users, kept, page.NextCursor)
}

func (s *SocialGraphService) ListFollowRequests(ctx context.Context, recipientID string, cursor *pagination.Cursor, limit int) (*pagination.Page[RelationshipItem], error) {
	recipient, err := uuid.Parse(recipientID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	limit = pagination.ClampLimit(limit)

	requests, err := s.follows.ListRequests(ctx, recipient, cursor, limit)
	if err != nil {
		return nil, storeError(err)
	}
	page := pagination.NewPage(requests, limit, func(r *models.FollowRequest) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	})

	users := make([]*models.User, len(page.Items))
	since := make([]time.Time, len(page.Items))
	for i, r := range page.Items {
		sender := r.Sender
		users[i] = &sender
		since[i] = r.CreatedAt
	}
	return s.annotatePage(ctx, recipient, users, since, page.NextCursor)
}

func (s *SocialGraphService) ListFriendRequests(ctx context.Context, recipientID string, cursor *pagination.Cursor, limit int) (*pagination.Page[RelationshipItem], error) {
	recipient, err := uuid.Parse(recipientID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	limit = pagination.ClampLimit(limit)

	requests, err := s.friends.ListRequests(ctx, recipient, cursor, limit)
	if err != nil {
		return nil, storeError(err)
	}
	page := pagination.NewPage(requests, limit, func(r *models.FriendRequest) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	})

	users := make([]*models.User, len(page.Items))
	since := make([]time.Time, len(page.Items))
	for i, r := range page.Items {
		sender := r.Sender
		users[i] = &sender
		since[i] = r.CreatedAt
	}
	return s.annotatePage(ctx, recipient, users, since, page.NextCursor)
}

func parseUserAndViewer(userID, viewerID string) (uuid.UUID, uuid.UUID, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid user ID: %w", err)
	}
	viewer, err := uuid.Parse(viewerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return user, viewer, nil
}

// annotatePage decorates each listed user with the viewer's relationship to
// them using two batched lookups, never one query per row.
func (s *SocialGraphService) annotatePage(ctx context.Context, viewerID uuid.UUID, users []*models.User, since []time.Time, next *pagination.Cursor) (*pagination.Page[RelationshipItem], error) {
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	following, err := s.follows.FollowingIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, storeError(err)
	}
	requested, err := s.friends.RequestedIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, storeError(err)
	}

	items := make([]RelationshipItem, len(users))
	for i, u := range users {
		items[i] = RelationshipItem{
			User:              u,
			Since:             since[i],
			IsFollowing:       following[u.ID],
			IsFriendRequested: requested[u.ID],
		}
	}
	return &pagination.Page[RelationshipItem]{Items: items, NextCursor: next}, nil
}

func (s *SocialGraphService) afterRelationshipChange(ctx context.Context, eventType queue.EventType, a, b uuid.UUID) {
	if err := s.cache.InvalidateProfiles(ctx, a, b); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate profile stats cache")
	}

	event, err := queue.NewEvent(eventType, queue.RelationshipEventData{
		UserID:  a.String(),
		OtherID: b.String(),
	})
	if err == nil {
		err = s.producer.Publish(ctx, a.String(), event)
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to publish relationship event")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"event":    string(eventType),
		"user_id":  a.String(),
		"other_id": b.String(),
	}).Info("Relationship changed")
}
