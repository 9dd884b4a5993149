package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is addressed content: an author sends it to a recipient's profile.
type Post struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthorID    uuid.UUID      `json:"author_id" gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID      `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Author    User `json:"-" gorm:"foreignKey:AuthorID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// PostStats mirrors ProfileStats at post granularity, created with the post.
type PostStats struct {
	PostID       uuid.UUID `json:"post_id" gorm:"type:uuid;primary_key"`
	LikeCount    int64     `json:"like_count" gorm:"not null;default:0"`
	CommentCount int64     `json:"comment_count" gorm:"not null;default:0"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Like exists at most once per (user, post); the row itself is the source of
// truth for "has this user liked this post".
type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_post"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_like_user_post;index"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

// Comment rows are hard-deleted so pagination never has to skip tombstones.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}

func (PostStats) TableName() string {
	return "post_stats"
}

func (Like) TableName() string {
	return "likes"
}

func (Comment) TableName() string {
	return "comments"
}
