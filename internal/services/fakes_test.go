package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/socialbase/socialbase/internal/models"
	"github.com/socialbase/socialbase/internal/repository"
	"github.com/socialbase/socialbase/pkg/pagination"
	"github.com/socialbase/socialbase/pkg/queue"
)

// fakeStore is an in-memory stand-in for the gorm repositories. It enforces
// the same unique constraints and reports the same ErrNotFound/ErrDuplicate
// conditions, so the services exercise their real translation paths.
type fakeStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*models.User
	profileStats map[uuid.UUID]*models.ProfileStats
	follows      []*models.Follow
	followReqs   []*models.FollowRequest
	friendships  []*models.Friendship
	friendReqs   []*models.FriendRequest
	blocks       []*models.Block
	posts        map[uuid.UUID]*models.Post
	postStats    map[uuid.UUID]*models.PostStats
	likes        []*models.Like
	comments     []*models.Comment

	now time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[uuid.UUID]*models.User),
		profileStats: make(map[uuid.UUID]*models.ProfileStats),
		posts:        make(map[uuid.UUID]*models.Post),
		postStats:    make(map[uuid.UUID]*models.PostStats),
		now:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick hands out strictly increasing timestamps so listings have a
// deterministic (created_at, id) order.
func (s *fakeStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func beforeCursor(createdAt time.Time, id uuid.UUID, c *pagination.Cursor) bool {
	if c == nil {
		return true
	}
	if createdAt.Before(c.CreatedAt) {
		return true
	}
	return createdAt.Equal(c.CreatedAt) && id.String() < c.ID.String()
}

// UserStore

func (s *fakeStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = s.tick()
	s.users[user.ID] = user
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *fakeStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			copied := *u
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *fakeStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeStore) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id := range s.users {
		if after == uuid.Nil || id.String() > after.String() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *fakeStore) CreateStats(ctx context.Context, stats *models.ProfileStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profileStats[stats.UserID]; ok {
		return repository.ErrDuplicate
	}
	copied := *stats
	s.profileStats[stats.UserID] = &copied
	return nil
}

func (s *fakeStore) GetStats(ctx context.Context, userID uuid.UUID) (*models.ProfileStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.profileStats[userID]
	if !ok {
		return nil, nil
	}
	copied := *stats
	return &copied, nil
}

func (s *fakeStore) bumpProfileStat(userID uuid.UUID, apply func(*models.ProfileStats)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.profileStats[userID]
	if !ok {
		return repository.ErrNotFound
	}
	apply(stats)
	return nil
}

func (s *fakeStore) BumpFollowerCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return s.bumpProfileStat(userID, func(st *models.ProfileStats) { st.FollowerCount += delta })
}

func (s *fakeStore) BumpFollowingCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return s.bumpProfileStat(userID, func(st *models.ProfileStats) { st.FollowingCount += delta })
}

func (s *fakeStore) BumpFriendCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return s.bumpProfileStat(userID, func(st *models.ProfileStats) { st.FriendCount += delta })
}

func (s *fakeStore) BumpPostCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return s.bumpProfileStat(userID, func(st *models.ProfileStats) { st.PostCount += delta })
}

func (s *fakeStore) BumpCommentCount(ctx context.Context, userID uuid.UUID, delta int64) error {
	return s.bumpProfileStat(userID, func(st *models.ProfileStats) { st.CommentCount += delta })
}

func (s *fakeStore) SetStats(ctx context.Context, stats *models.ProfileStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profileStats[stats.UserID]; !ok {
		return repository.ErrNotFound
	}
	copied := *stats
	s.profileStats[stats.UserID] = &copied
	return nil
}

// followStore / friendStore / blockStore views: separate tiny wrappers would
// collide on method names, so the per-interface fakes below delegate to the
// shared state.

type fakeFollowStore struct{ s *fakeStore }

func (f *fakeFollowStore) Create(ctx context.Context, follow *models.Follow) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.follows {
		if existing.FollowerID == follow.FollowerID && existing.FollowingID == follow.FollowingID {
			return repository.ErrDuplicate
		}
	}
	follow.ID = uuid.New()
	follow.CreatedAt = s.tick()
	s.follows = append(s.follows, follow)
	return nil
}

func (f *fakeFollowStore) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.follows {
		if existing.FollowerID == followerID && existing.FollowingID == followingID {
			s.follows = append(s.follows[:i], s.follows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeFollowStore) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.follows {
		if existing.FollowerID == followerID && existing.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowStore) CreateRequest(ctx context.Context, req *models.FollowRequest) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.followReqs {
		if existing.SenderID == req.SenderID && existing.RecipientID == req.RecipientID {
			return repository.ErrDuplicate
		}
	}
	req.ID = uuid.New()
	req.CreatedAt = s.tick()
	s.followReqs = append(s.followReqs, req)
	return nil
}

func (f *fakeFollowStore) DeleteRequest(ctx context.Context, senderID, recipientID uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.followReqs {
		if existing.SenderID == senderID && existing.RecipientID == recipientID {
			s.followReqs = append(s.followReqs[:i], s.followReqs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeFollowStore) RequestExists(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.followReqs {
		if existing.SenderID == senderID && existing.RecipientID == recipientID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowStore) ListFollowers(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Follow, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*models.Follow
	for _, existing := range s.follows {
		if existing.FollowingID == userID && beforeCursor(existing.CreatedAt, existing.ID, cursor) {
			copied := *existing
			if u, ok := s.users[existing.FollowerID]; ok {
				copied.Follower = *u
			}
			matched = append(matched, &copied)
		}
	}
	sortFollowsDesc(matched)
	if len(matched) > limit+1 {
		matched = matched[:limit+1]
	}
	return matched, nil
}

func (f *fakeFollowStore) ListFollowing(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Follow, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*models.Follow
	for _, existing := range s.follows {
		if existing.FollowerID == userID && beforeCursor(existing.CreatedAt, existing.ID, cursor) {
			copied := *existing
			if u, ok := s.users[existing.FollowingID]; ok {
				copied.Following = *u
			}
			matched = append(matched, &copied)
		}
	}
	sortFollowsDesc(matched)
	if len(matched) > limit+1 {
		matched = matched[:limit+1]
	}
	return matched, nil
}

func (f *fakeFollowStore) ListRequests(ctx context.Context, recipientID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.FollowRequest, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*models.FollowRequest
	for _, existing := range s.followReqs {
		if existing.RecipientID == recipientID && beforeCursor(existing.CreatedAt, existing.ID, cursor) {
			copied := *existing
			if u, ok := s.users[existing.SenderID]; ok {
				copied.Sender = *u
			}
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})
	if len(matched) > limit+1 {
		matched = matched[:limit+1]
	}
	return matched, nil
}

func (f *fakeFollowStore) FollowingIDs(ctx context.Context, viewerID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[uuid.UUID]bool)
	wanted := make(map[uuid.UUID]bool, len(candidates))
	for _, id := range candidates {
		wanted[id] = true
	}
	for _, existing := range s.follows {
		if existing.FollowerID == viewerID && wanted[existing.FollowingID] {
			result[existing.FollowingID] = true
		}
	}
	return result, nil
}

func (f *fakeFollowStore) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, existing := range s.follows {
		if existing.FollowingID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollowStore) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, existing := range s.follows {
		if existing.FollowerID == userID {
			n++
		}
	}
	return n, nil
}

func sortFollowsDesc(follows []*models.Follow) {
	sort.Slice(follows, func(i, j int) bool {
		if !follows[i].CreatedAt.Equal(follows[j].CreatedAt) {
			return follows[i].CreatedAt.After(follows[j].CreatedAt)
		}
		return follows[i].ID.String() > follows[j].ID.String()
	})
}

type fakeFriendStore struct{ s *fakeStore }

func (f *fakeFriendStore) Create(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	low, high := models.CanonicalPair(a, b)
	for _, existing := range s.friendships {
		if existing.UserLowID == low && existing.UserHighID == high {
			return nil, repository.ErrDuplicate
		}
	}
	friendship := &models.Friendship{
		ID:         uuid.New(),
		UserLowID:  low,
		UserHighID: high,
		CreatedAt:  s.tick(),
	}
	s.friendships = append(s.friendships, friendship)
	return friendship, nil
}

func (f *fakeFriendStore) Delete(ctx context.Context, a, b uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	low, high := models.CanonicalPair(a, b)
	for i, existing := range s.friendships {
		if existing.UserLowID == low && existing.UserHighID == high {
			s.friendships = append(s.friendships[:i], s.friendships[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeFriendStore) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	low, high := models.CanonicalPair(a, b)
	for _, existing := range s.friendships {
		if existing.UserLowID == low && existing.UserHighID == high {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendStore) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.friendReqs {
		if existing.SenderID == req.SenderID && existing.RecipientID == req.RecipientID {
			return repository.ErrDuplicate
		}
	}
	req.ID = uuid.New()
	req.CreatedAt = s.tick()
	s.friendReqs = append(s.friendReqs, req)
	return nil
}

func (f *fakeFriendStore) DeleteRequest(ctx context.Context, senderID, recipientID uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.friendReqs {
		if existing.SenderID == senderID && existing.RecipientID == recipientID {
			s.friendReqs = append(s.friendReqs[:i], s.friendReqs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeFriendStore) RequestExists(ctx context.Context, senderID, recipientID uuid.UUID) (bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.friendReqs {
		if existing.SenderID == senderID && existing.RecipientID == recipientID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendStore) ListFriends(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Friendship, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*models.Friendship
	for _, existing := range s.friendships {
		if (existing.UserLowID == userID || existing.UserHighID == userID) &&
			beforeCursor(existing.CreatedAt, existing.ID, cursor) {
			copied := *existing
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})
	if len(matched) > limit+1 {
		matched = matched[:limit+1]
	}
	return matched, nil
}

func (f *fakeFriendStore) ListRequests(ctx context.Context, recipientID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.FriendRequest, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*models.FriendRequest
	for _, existing := range s.friendReqs {
		if existing.RecipientID == recipientID && beforeCursor(existing.CreatedAt, existing.ID, cursor) {
			copied := *existing
			if u, ok := s.users[existing.SenderID]; ok {
				copied.Sender = *u
			}
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})
	if len(matched) > limit+1 {
		matched = matched[:limit+1]
	}
	return matched, nil
}

func (f *fakeFriendStore) RequestedIDs(ctx context.Context, viewerID uuid.UUID, candidates []uuid.UUID) (map[uuid.UUID]bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[uuid.UUID]bool)
	wanted := make(map[uuid.UUID]bool, len(candidates))
	for _, id := range candidates {
		wanted[id] = true
	}
	for _, existing := range s.friendReqs {
		if existing.SenderID == viewerID && wanted[existing.RecipientID] {
			result[existing.RecipientID] = true
		}
	}
	return result, nil
}

func (f *fakeFriendStore) CountFriends(ctx context.Context, userID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, existing := range s.friendships {
		if existing.UserLowID == userID || existing.UserHighID == userID {
			n++
		}
	}
	return n, nil
}

type fakeBlockStore struct{ s *fakeStore }

func (f *fakeBlockStore) Create(ctx context.Context, block *models.Block) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.blocks {
		if existing.BlockerID == block.BlockerID && existing.BlockedID == block.BlockedID {
			return repository.ErrDuplicate
		}
	}
	block.ID = uuid.New()
	block.CreatedAt = s.tick()
	s.blocks = append(s.blocks, block)
	return nil
}

func (f *fakeBlockStore) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.blocks {
		if existing.BlockerID == blockerID && existing.BlockedID == blockedID {
			s.blocks = append(s.blocks[:i], s.blocks[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeBlockStore) ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.blocks {
		if (existing.BlockerID == a && existing.BlockedID == b) ||
			(existing.BlockerID == b && existing.BlockedID == a) {
			return true, nil
		}
	}
	return false, nil
}

type fakePostStore struct{ s *fakeStore }

func (f *fakePostStore) Create(ctx context.Context, post *models.Post) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.CreatedAt = s.tick()
	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (f *fakePostStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (f *fakePostStore) Delete(ctx context.Context, id uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (f *fakePostStore) CreateStats(ctx context.Context, stats *models.PostStats) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.postStats[stats.PostID]; ok {
		return repository.ErrDuplicate
	}
	copied := *stats
	s.postStats[stats.PostID] = &copied
	return nil
}

func (f *fakePostStore) GetStats(ctx context.Context, postID uuid.UUID) (*models.PostStats, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.postStats[postID]
	if !ok {
		return nil, nil
	}
	copied := *stats
	return &copied, nil
}

func (f *fakePostStore) DeleteStats(ctx context.Context, postID uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.postStats, postID)
	return nil
}

func (f *fakePostStore) BumpLikeCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.postStats[postID]
	if !ok {
		return repository.ErrNotFound
	}
	stats.LikeCount += delta
	return nil
}

func (f *fakePostStore) BumpCommentCount(ctx context.Context, postID uuid.UUID, delta int64) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.postStats[postID]
	if !ok {
		return repository.ErrNotFound
	}
	stats.CommentCount += delta
	return nil
}

func (f *fakePostStore) SetStats(ctx context.Context, stats *models.PostStats) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.postStats[stats.PostID]; !ok {
		return repository.ErrNotFound
	}
	copied := *stats
	s.postStats[stats.PostID] = &copied
	return nil
}

func (f *fakePostStore) CountByRecipient(ctx context.Context, userID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, post := range s.posts {
		if post.RecipientID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakePostStore) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id := range s.posts {
		if after == uuid.Nil || id.String() > after.String() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

type fakeLikeStore struct{ s *fakeStore }

func (f *fakeLikeStore) Create(ctx context.Context, like *models.Like) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.likes {
		if existing.UserID == like.UserID && existing.PostID == like.PostID {
			return repository.ErrDuplicate
		}
	}
	like.ID = uuid.New()
	like.CreatedAt = s.tick()
	s.likes = append(s.likes, like)
	return nil
}

func (f *fakeLikeStore) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.likes {
		if existing.UserID == userID && existing.PostID == postID {
			s.likes = append(s.likes[:i], s.likes[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeLikeStore) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.likes {
		if existing.UserID == userID && existing.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLikeStore) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*models.Like
	var removed int64
	for _, existing := range s.likes {
		if existing.PostID == postID {
			removed++
			continue
		}
		kept = append(kept, existing)
	}
	s.likes = kept
	return removed, nil
}

func (f *fakeLikeStore) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, existing := range s.likes {
		if existing.PostID == postID {
			n++
		}
	}
	return n, nil
}

type fakeCommentStore struct{ s *fakeStore }

func (f *fakeCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	comment.ID = uuid.New()
	comment.CreatedAt = s.tick()
	copied := *comment
	s.comments = append(s.comments, &copied)
	return nil
}

func (f *fakeCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.comments {
		if existing.ID == id {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.comments {
		if existing.ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCommentStore) ListByPost(ctx context.Context, postID uuid.UUID, cursor *pagination.Cursor, limit int) ([]*models.Comment, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*models.Comment
	for _, existing := range s.comments {
		if existing.PostID == postID && beforeCursor(existing.CreatedAt, existing.ID, cursor) {
			copied := *existing
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})
	if len(matched) > limit+1 {
		matched = matched[:limit+1]
	}
	return matched, nil
}

func (f *fakeCommentStore) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*models.Comment
	var removed int64
	for _, existing := range s.comments {
		if existing.PostID == postID {
			removed++
			continue
		}
		kept = append(kept, existing)
	}
	s.comments = kept
	return removed, nil
}

func (f *fakeCommentStore) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, existing := range s.comments {
		if existing.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCommentStore) CountForRecipient(ctx context.Context, userID uuid.UUID) (int64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, existing := range s.comments {
		if post, ok := s.posts[existing.PostID]; ok && post.RecipientID == userID {
			n++
		}
	}
	return n, nil
}

// fakeTx runs the function directly; the fakes apply writes immediately, so
// tests only assert on committed outcomes.
type fakeTx struct{}

func (fakeTx) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (p *fakePublisher) Publish(ctx context.Context, key string, event queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fakeStatsCache struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.ProfileStats
	posts    map[uuid.UUID]*models.PostStats
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{
		profiles: make(map[uuid.UUID]*models.ProfileStats),
		posts:    make(map[uuid.UUID]*models.PostStats),
	}
}

func (c *fakeStatsCache) GetProfileStats(ctx context.Context, userID uuid.UUID) (*models.ProfileStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profiles[userID], nil
}

func (c *fakeStatsCache) SetProfileStats(ctx context.Context, stats *models.ProfileStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[stats.UserID] = stats
	return nil
}

func (c *fakeStatsCache) GetPostStats(ctx context.Context, postID uuid.UUID) (*models.PostStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.posts[postID], nil
}

func (c *fakeStatsCache) SetPostStats(ctx context.Context, stats *models.PostStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[stats.PostID] = stats
	return nil
}

func (c *fakeStatsCache) InvalidateProfiles(ctx context.Context, userIDs ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.profiles, id)
	}
	return nil
}

func (c *fakeStatsCache) InvalidatePosts(ctx context.Context, postIDs ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range postIDs {
		delete(c.posts, id)
	}
	return nil
}
