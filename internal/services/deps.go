package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/pkg/pagination"
	"github.com/socialbase/socialbase/pkg/queue"
)

// The services consume the repository layer through these interfaces; the
// gorm repositories satisfy them and the composition root wires them in.
// Tests substitute in-memory fakes.

// Transactor runs a function inside one store transaction; repository calls
// made with the ctx it passes join that transaction.
type Transactor interface {
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	CreateStats(ctx context.Context, stats *models.ProfileStats) error
	GetStats(ctx context.Context, userID uuid.UUID) (*models.ProfileStats, error)
	BumpFollowerCount(ctx context.Context, userID uuid.UUID, delta int64) error
	BumpFollowingCount(ctx context.Context, userID uuid.UUID, delta int64) error
	BumpFriendCount(ctx context.Context, userID uuid.UUID, delta int64) error
	BumpPostCount(ctx context.Context, userID uuid.UUID, delta int64) error
	BumpCommentCount(ctx context.Context, userID uuid.UUID, delta int64) error
}

type FollowStore interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	CreateRequest(ctx context.Context, req *models.FollowRequest) error
	DeleteRequest(ctx context.Context, senderID, recipientID uuid.UUID) error
	RequestExists(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Follow, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Follow, error)
	ListRequests(ctx context.Context, recipientID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.FollowRequest, error)
	FollowingIDs(ctx context.Context, viewerID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error)
}

type FriendStore interface {
	Create(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error)
	Delete(ctx context.Context, a, b uuid.UUID) error
	Exists(ctx context.Context, a, b uuid.UUID) (bool, error)
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	DeleteRequest(ctx context.Context, senderID, recipientID uuid.UUID) error
	RequestExists(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error)
	ListFriends(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Friendship, error)
	ListRequests(ctx context.Context, recipientID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.FriendRequest, error)
	RequestedIDs(ctx context.Context, viewerID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error)
}

type BlockStore interface {
	Create(ctx context.Context, block *models.Block) error
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error
	ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateStats(ctx context.Context, stats *models.PostStats) error
	GetStats(ctx context.Context, postID uuid.UUID) (*models.PostStats, error)
	DeleteStats(ctx context.Context, postID uuid.UUID) error
	BumpLikeCount(ctx context.Context, postID uuid.UUID, delta int64) error
	BumpCommentCount(ctx context.Context, postID uuid.UUID, delta int64) error
}

type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPost(ctx context.Context, postID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Comment, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

// Publisher emits domain events after commit; publish failures are logged,
// never surfaced, since events are advisory.
type Publisher interface {
	Publish(ctx context.Context, key string, event queue.Event) error
}

// StatsCache is the read-through counter cache. A nil result with nil error
// means miss.
type StatsCache interface {
	GetProfileStats(ctx context.Context, userID uuid.UUID) (*models.ProfileStats, error)
	SetProfileStats(ctx context.Context, stats *models.ProfileStats) error
	GetPostStats(ctx context.Context, postID uuid.UUID) (*models.PostStats, error)
	SetPostStats(ctx context.Context, stats *models.PostStats) error
	InvalidateProfiles(ctx context.Context, userIDs ...uuid.UUID) error
	InvalidatePosts(ctx context.Context, postIDs ...uuid.UUID) error
}
