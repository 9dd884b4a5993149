package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username    string         `json:"username" gorm:"uniqueIndex;not null"`
	Email       string         `json:"email" gorm:"uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"not null"`
	DisplayName string         `json:"display_name"`
	Avatar      string         `json:"avatar"`
	Bio         string         `json:"bio"`
	IsPrivate   bool           `json:"is_private" gorm:"default:false"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// ProfileStats is the denormalized per-profile counter row. Every user gets
// one at registration; the counters only move via atomic column bumps inside
// the same transaction that mutates the corresponding detail rows.
type ProfileStats struct {
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;primary_key"`
	FollowerCount  int64     `json:"follower_count" gorm:"not null;default:0"`
	FollowingCount int64     `json:"following_count" gorm:"not null;default:0"`
	FriendCount    int64     `json:"friend_count" gorm:"not null;default:0"`
	PostCount      int64     `json:"post_count" gorm:"not null;default:0"`
	CommentCount   int64     `json:"comment_count" gorm:"not null;default:0"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (ProfileStats) TableName() string {
	return "profile_stats"
}
