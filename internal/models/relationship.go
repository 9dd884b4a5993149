package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: follower follows following.
type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_following"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follower_following;index"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  User `json:"-" gorm:"foreignKey:FollowerID"`
	Following User `json:"-" gorm:"foreignKey:FollowingID"`
}

// FollowRequest is a pending follow of a private account, awaiting the
// recipient's decision. A pair never holds both a FollowRequest and a Follow.
type FollowRequest struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SenderID    uuid.UUID `json:"sender_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_req_pair"`
	RecipientID uuid.UUID `json:"recipient_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_req_pair;index"`
	CreatedAt   time.Time `json:"created_at"`

	Sender    User `json:"-" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// Friendship is an undirected edge stored in canonical order so the unique
// pair constraint is independent of who initiated it.
type Friendship struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserLowID  uuid.UUID `json:"user_low_id" gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair"`
	UserHighID uuid.UUID `json:"user_high_id" gorm:"type:uuid;not null;uniqueIndex:idx_friend_pair;index"`
	CreatedAt  time.Time `json:"created_at"`
}

type FriendRequest struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SenderID    uuid.UUID `json:"sender_id" gorm:"type:uuid;not null;uniqueIndex:idx_friend_req_pair"`
	RecipientID uuid.UUID `json:"recipient_id" gorm:"type:uuid;not null;uniqueIndex:idx_friend_req_pair;index"`
	CreatedAt   time.Time `json:"created_at"`

	Sender    User `json:"-" gorm:"foreignKey:SenderID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// Block is directed: blocker blocks blocked. A block in either direction
// suppresses every follow/friend interaction between the pair.
type Block struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BlockerID uuid.UUID `json:"blocker_id" gorm:"type:uuid;not null;uniqueIndex:idx_block_pair"`
	BlockedID uuid.UUID `json:"blocked_id" gorm:"type:uuid;not null;uniqueIndex:idx_block_pair;index"`
	CreatedAt time.Time `json:"created_at"`
}

// CanonicalPair orders two user ids so undirected pairs always hash to the
// same (low, high) key regardless of argument order.
func CanonicalPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

func (Follow) TableName() string {
	return "follows"
}

func (FollowRequest) TableName() string {
	return "follow_requests"
}

func (Friendship) TableName() string {
	return "friendships"
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

func (Block) TableName() string {
	return "blocks"
}
