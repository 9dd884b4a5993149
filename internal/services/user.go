package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles account lifecycle. Registration creates the profile
// stats row in the same transaction as the user row, so every profile has a
// stats row from birth and counter bumps never race an absent row.
type UserService struct {
	users  UserStore
	tx     Transactor
	cache  StatsCache
	logger *logger.Logger
}

func NewUserService(users UserStore, tx Transactor, cache StatsCache, logger *logger.Logger) *UserService {
	return &UserService{
		users:  users,
		tx:     tx,
		cache:  cache,
		logger: logger,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=50"`
	DisplayName string `json:"display_name" binding:"max=50"`
	IsPrivate   bool   `json:"is_private"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=50"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	IsPrivate   *bool   `json:"is_private"`
}

// Profile is a user together with its denormalized counters.
type Profile struct {
	User  *models.User         `json:"user"`
	Stats *models.ProfileStats `json:"stats"`
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, storeError(err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, storeError(err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
		IsPrivate:   req.IsPrivate,
		IsActive:    true,
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			// The unique index settles a concurrent register race.
			return mapStoreErr(err, nil, ErrUsernameTaken)
		}
		if err := s.users.CreateStats(ctx, &models.ProfileStats{UserID: user.ID}); err != nil {
			return storeError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in")
	return user, nil
}

// GetProfile returns the user with its stats, serving the stats through the
// read-through cache.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if cached, err := s.cache.GetProfileStats(ctx, id); err == nil && cached != nil {
		return &Profile{User: user, Stats: cached}, nil
	}

	stats, err := s.users.GetStats(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if stats == nil {
		return nil, ErrProfileNotFound
	}
	if err := s.cache.SetProfileStats(ctx, stats); err != nil {
		s.logger.WithError(err).Warn("Failed to cache profile stats")
	}

	return &Profile{User: user, Stats: stats}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.IsPrivate != nil {
		user.IsPrivate = *req.IsPrivate
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError(err)
	}

	s.logger.WithField("user_id", user.ID).Info("Profile updated")
	return user, nil
}
