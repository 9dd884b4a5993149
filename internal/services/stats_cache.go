package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/pkg/cache"
	"github.com/socialbase/socialbase/pkg/logger"
)

const (
	profileStatsKeyPrefix = "stats:profile:"
	postStatsKeyPrefix    = "stats:post:"
)

// StatsCacheService keeps short-lived redis copies of the stats rows so hot
// profile/post reads stay off the database. The database row remains the
// source of truth; every counter mutation invalidates the copy.
type StatsCacheService struct {
	cache  *cache.RedisClient
	ttl    time.Duration
	logger *logger.Logger
}

func NewStatsCacheService(cache *cache.RedisClient, ttl time.Duration, logger *logger.Logger) *StatsCacheService {
	return &StatsCacheService{
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *StatsCacheService) GetProfileStats(ctx context.Context, userID uuid.UUID) (*models.ProfileStats, error) {
	var stats models.ProfileStats
	err := s.cache.GetJSON(ctx, profileStatsKeyPrefix+userID.String(), &stats)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile stats cache: %w", err)
	}
	return &stats, nil
}

func (s *StatsCacheService) SetProfileStats(ctx context.Context, stats *models.ProfileStats) error {
	return s.cache.SetJSON(ctx, profileStatsKeyPrefix+stats.UserID.String(), stats, s.ttl)
}

func (s *StatsCacheService) GetPostStats(ctx context.Context, postID uuid.UUID) (*models.PostStats, error) {
	var stats models.PostStats
	err := s.cache.GetJSON(ctx, postStatsKeyPrefix+postID.String(), &stats)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read post stats cache: %w", err)
	}
	return &stats, nil
}

func (s *StatsCacheService) SetPostStats(ctx context.Context, stats *models.PostStats) error {
	return s.cache.SetJSON(ctx, postStatsKeyPrefix+stats.PostID.String(), stats, s.ttl)
}

func (s *StatsCacheService) InvalidateProfiles(ctx context.Context, userIDs ...uuid.UUID) error {
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = profileStatsKeyPrefix + id.String()
	}
	return s.cache.Delete(ctx, keys...)
}

func (s *StatsCacheService) InvalidatePosts(ctx context.Context, postIDs ...uuid.UUID) error {
	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = postStatsKeyPrefix + id.String()
	}
	return s.cache.Delete(ctx, keys...)
}
