package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/pkg/logger"
	"github.com/socialbase/socialbase/pkg/pagination"
	"github.com/socialbase/socialbase/pkg/queue"
)

// PostInteractionService owns the like/comment transitions against posts and
// keeps PostStats and the recipient's ProfileStats consistent with the
// interaction rows. Like and unlike are deliberately non-idempotent: a second
// identical call fails with AlreadyLiked/NotLiked so client double-submits
// surface instead of being swallowed.
type PostInteractionService struct {
	users    UserStore
	posts    PostStore
	likes    LikeStore
	comments CommentStore
	tx       Transactor
	cache    StatsCache
	producer Publisher
	logger   *logger.Logger
}

func NewPostInteractionService(users UserStore, posts PostStore, likes LikeStore, comments CommentStore, tx Transactor, cache StatsCache, producer Publisher, logger *logger.Logger) *PostInteractionService {
	return &PostInteractionService{
		users:    users,
		posts:    posts,
		likes:    likes,
		comments: comments,
		tx:       tx,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

// CreatePost inserts the post with its zeroed stats row and bumps the
// recipient's post counter, all in one transaction. A post is addressed
// content: authorID writes onto recipientID's profile.
func (s *PostInteractionService) CreatePost(ctx context.Context, authorID, recipientID string, req *CreatePostRequest) (*models.Post, error) {
	author, err := uuid.Parse(authorID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	recipient, err := uuid.Parse(recipientID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	target, err := s.users.GetByID(ctx, recipient)
	if err != nil {
		return nil, storeError(err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	post := &models.Post{AuthorID: author, RecipientID: recipient, Content: req.Content}
	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.posts.Create(ctx, post); err != nil {
			return storeError(err)
		}
		if err := s.posts.CreateStats(ctx, &models.PostStats{PostID: post.ID}); err != nil {
			return storeError(err)
		}
		if err := s.users.BumpPostCount(ctx, recipient, 1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterInteraction(ctx, queue.EventPostCreated, author, post.ID, recipient)
	return post, nil
}

// DeletePost removes the post and every attached like/comment row, then
// walks the recipient's counters back by what was removed.
func (s *PostInteractionService) DeletePost(ctx context.Context, requesterID, postID string) error {
	requester, err := uuid.Parse(requesterID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requester && post.RecipientID != requester {
		return ErrNotPostOwner
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.posts.Delete(ctx, post.ID); err != nil {
			return mapStoreErr(err, ErrPostNotFound, nil)
		}
		if _, err := s.likes.DeleteByPost(ctx, post.ID); err != nil {
			return storeError(err)
		}
		removedComments, err := s.comments.DeleteByPost(ctx, post.ID)
		if err != nil {
			return storeError(err)
		}
		if err := s.posts.DeleteStats(ctx, post.ID); err != nil {
			return storeError(err)
		}
		if err := s.users.BumpPostCount(ctx, post.RecipientID, -1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		if removedComments > 0 {
			if err := s.users.BumpCommentCount(ctx, post.RecipientID, -removedComments); err != nil {
				return mapStoreErr(err, ErrProfileNotFound, nil)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterInteraction(ctx, queue.EventPostRemoved, requester, post.ID, post.RecipientID)
	return nil
}

func (s *PostInteractionService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return s.getPost(ctx, postID)
}

// GetPostStats serves the post counters through the read-through cache.
func (s *PostInteractionService) GetPostStats(ctx context.Context, postID string) (*models.PostStats, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if cached, err := s.cache.GetPostStats(ctx, post.ID); err == nil && cached != nil {
		return cached, nil
	}

	stats, err := s.posts.GetStats(ctx, post.ID)
	if err != nil {
		return nil, storeError(err)
	}
	if stats == nil {
		return nil, ErrPostNotFound
	}
	if err := s.cache.SetPostStats(ctx, stats); err != nil {
		s.logger.WithError(err).Warn("Failed to cache post stats")
	}
	return stats, nil
}

// LikePost inserts the like row and bumps the like counter in one
// transaction. Under a concurrent duplicate the unique (user, post)
// constraint fails one of the inserts, which surfaces as AlreadyLiked; the
// preliminary existence check only catches the cheap, non-racy case.
func (s *PostInteractionService) LikePost(ctx context.Context, userID, postID string) error {
	user, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	liked, err := s.likes.Exists(ctx, user, post.ID)
	if err != nil {
		return storeError(err)
	}
	if liked {
		return ErrAlreadyLiked
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		like := &models.Like{UserID: user, PostID: post.ID}
		if err := s.likes.Create(ctx, like); err != nil {
			return mapStoreErr(err, nil, ErrAlreadyLiked)
		}
		if err := s.posts.BumpLikeCount(ctx, post.ID, 1); err != nil {
			return mapStoreErr(err, ErrPostNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterInteraction(ctx, queue.EventLikeCreated, user, post.ID, post.RecipientID)
	return nil
}

func (s *PostInteractionService) UnlikePost(ctx context.Context, userID, postID string) error {
	user, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.likes.Delete(ctx, user, post.ID); err != nil {
			return mapStoreErr(err, ErrNotLiked, nil)
		}
		if err := s.posts.BumpLikeCount(ctx, post.ID, -1); err != nil {
			return mapStoreErr(err, ErrPostNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterInteraction(ctx, queue.EventLikeRemoved, user, post.ID, post.RecipientID)
	return nil
}

// HasLiked is a pure existence check.
func (s *PostInteractionService) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return false, fmt.Errorf("invalid user ID: %w", err)
	}
	post, err := uuid.Parse(postID)
	if err != nil {
		return false, fmt.Errorf("invalid post ID: %w", err)
	}
	liked, err := s.likes.Exists(ctx, user, post)
	if err != nil {
		return false, storeError(err)
	}
	return liked, nil
}

// CommentOnPost inserts the comment and bumps two distinct counters in the
// same transaction: the post's comment count and the post recipient's
// profile-level comment count.
func (s *PostInteractionService) CommentOnPost(ctx context.Context, userID, postID string, req *CreateCommentRequest) (*models.Comment, error) {
	user, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{UserID: user, PostID: post.ID, Content: req.Content}
	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.comments.Create(ctx, comment); err != nil {
			return storeError(err)
		}
		if err := s.posts.BumpCommentCount(ctx, post.ID, 1); err != nil {
			return mapStoreErr(err, ErrPostNotFound, nil)
		}
		if err := s.users.BumpCommentCount(ctx, post.RecipientID, 1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterInteraction(ctx, queue.EventCommentCreated, user, post.ID, post.RecipientID)
	return comment, nil
}

func (s *PostInteractionService) DeleteComment(ctx context.Context, userID, commentID, postID string) error {
	user, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}
	cid, err := uuid.Parse(commentID)
	if err != nil {
		return fmt.Errorf("invalid comment ID: %w", err)
	}
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	comment, err := s.comments.GetByID(ctx, cid)
	if err != nil {
		return storeError(err)
	}
	if comment == nil || comment.PostID != post.ID {
		return ErrCommentNotFound
	}
	if comment.UserID != user {
		return ErrNotCommentOwner
	}

	err = s.tx.Atomic(ctx, func(ctx context.Context) error {
		if err := s.comments.Delete(ctx, cid); err != nil {
			return mapStoreErr(err, ErrCommentNotFound, nil)
		}
		if err := s.posts.BumpCommentCount(ctx, post.ID, -1); err != nil {
			return mapStoreErr(err, ErrPostNotFound, nil)
		}
		if err := s.users.BumpCommentCount(ctx, post.RecipientID, -1); err != nil {
			return mapStoreErr(err, ErrProfileNotFound, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterInteraction(ctx, queue.EventCommentRemoved, user, post.ID, post.RecipientID)
	return nil
}

func (s *PostInteractionService) PaginateComments(ctx context.Context, postID string, cursor *pagination.Cursor, limit int) (*pagination.Page[*models.Comment], error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	limit = pagination.ClampLimit(limit)

	comments, err := s.comments.ListByPost(ctx, post.ID, cursor, limit)
	if err != nil {
		return nil, storeError(err)
	}
	page := pagination.NewPage(comments, limit, func(c *models.Comment) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})
	return &page, nil
}

func (s *PostInteractionService) getPost(ctx context.Context, postID string) (*models.Post, error) {
	id, err := uuid.Parse(postID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %w", err)
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostInteractionService) afterInteraction(ctx context.Context, eventType queue.EventType, userID, postID, profileID uuid.UUID) {
	if err := s.cache.InvalidatePosts(ctx, postID); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate post stats cache")
	}
	if err := s.cache.InvalidateProfiles(ctx, profileID); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate profile stats cache")
	}

	event, err := queue.NewEvent(eventType, queue.InteractionEventData{
		UserID:    userID.String(),
		PostID:    postID.String(),
		ProfileID: profileID.String(),
	})
	if err == nil {
		err = s.producer.Publish(ctx, postID.String(), event)
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to publish interaction event")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"event":   string(eventType),
		"user_id": userID.String(),
		"post_id": postID.String(),
	}).Info("Post interaction recorded")
}
