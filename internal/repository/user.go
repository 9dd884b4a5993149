package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := dbFor(ctx, r.db).Create(user).Error; err != nil {
		return translate("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := dbFor(ctx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, translate("failed to get user", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := dbFor(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, translate("failed to get user by username", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := dbFor(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, translate("failed to get user by email", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*models.User
	if err := dbFor(ctx, r.db).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate("failed to get users", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := dbFor(ctx, r.db).Save(user).Error; err != nil {
		return translate("failed to update user", err)
	}
	return nil
}

// ListIDs pages through all user ids in id order; used by the reconciler
// sweep. Pass uuid.Nil to start from the beginning.
func (r *UserRepository) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	q := dbFor(ctx, r.db).Model(&models.User{}).Order("id").Limit(limit)
	if after != uuid.Nil {
		q = q.Where("id > ?", after)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, translate("failed to list user ids", err)
	}
	return ids, nil
}

func (r *UserRepository) CreateStats(ctx context.Context, stats *models.ProfileStats) error {
	if err := dbFor(ctx, r.db).Create(stats).Error; err != nil {
		return translate("failed to create profile stats", err)
	}
	return nil
}

func (r *UserRepository) GetStats(ctx context.Context, userID uuid.UUID) (*models.ProfileStats, error) {
	var stats models.ProfileStats
	if err := dbFor(ctx, r.db).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, translate("failed to get profile stats", err)
	}
	return &stats, nil
}

// bumpStat moves one profile counter by delta with an atomic in-database
// add, so concurrent writers serialize on the row instead of losing updates.
// A missing stats row reports ErrNotFound: the profile is in an inconsistent
// state and the surrounding transaction must abort.
func (r *UserRepository) bumpStat(ctx context.Context, userID uuid.UUID, column string, delta int64) error {
	res := dbFor(ctx, r.db).Model(&models.ProfileStats{}).
		Where("user_id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return translate("failed to update profile stats", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to update profile stats", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *UserRepository) BumpFollowerCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return r.bumpStat(ctx, userID, "follower_count", delta)
}

func (r *UserRepository) BumpFollowingCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return r.bumpStat(ctx, userID, "following_count", delta)
}

func (r *UserRepository) BumpFriendCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return r.bumpStat(ctx, userID, "friend_count", delta)
}

func (r *UserRepository) BumpPostCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return r.bumpStat(ctx, userID, "post_count", delta)
}

func (r *UserRepository) BumpCommentCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return r.bumpStat(ctx, userID, "comment_count", delta)
}

// SetStats overwrites every counter with recounted absolutes; only the
// reconciler calls this.
func (r *UserRepository) SetStats(ctx context.Context, stats *models.ProfileStats) error {
	res := dbFor(ctx, r.db).Model(&models.ProfileStats{}).
		Where("user_id = ?", stats.UserID).
		UpdateColumns(map[string]interface{}{
			"follower_count":  stats.FollowerCount,
			"following_count": stats.FollowingCount,
			"friend_count":    stats.FriendCount,
			"post_count":      stats.PostCount,
			"comment_count":   stats.CommentCount,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return translate("failed to set profile stats", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to set profile stats", gorm.ErrRecordNotFound)
	}
	return nil
}
