package services

import (
	"errors"
	"fmt"

	"github.com/socialbase/socialbase/internal/repository"
)

// Domain failures are the enumerated, expected outcomes of service
// operations. Callers branch on these with errors.Is; anything else wraps
// ErrStore and is fatal for the request but retryable.
var (
	ErrSelfRelation = errors.New("cannot target yourself")
	ErrBlocked      = errors.New("interaction blocked between users")

	ErrProfileNotFound       = errors.New("profile stats not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrAlreadyFollowing      = errors.New("already following")
	ErrAlreadyRequested      = errors.New("request already pending")
	ErrFollowNotFound        = errors.New("follow not found")
	ErrFollowRequestNotFound = errors.New("follow request not found")
	ErrAlreadyFriends        = errors.New("already friends")
	ErrFriendRequestNotFound = errors.New("friend request not found")
	ErrFriendshipNotFound    = errors.New("friendship not found")
	ErrAlreadyBlocked        = errors.New("already blocked")
	ErrBlockNotFound         = errors.New("block not found")

	ErrPostNotFound    = errors.New("post not found")
	ErrAlreadyLiked    = errors.New("already liked")
	ErrNotLiked        = errors.New("not liked")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the comment owner")
	ErrNotPostOwner    = errors.New("not the post owner")

	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")

	ErrStore = errors.New("store failure")
)

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// mapStoreErr translates the two store conditions the repositories expose
// into the operation's domain failures. A nil mapping means the condition is
// unexpected for this operation and degrades to a store failure.
func mapStoreErr(err error, notFound, duplicate error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if notFound != nil {
			return notFound
		}
	case errors.Is(err, repository.ErrDuplicate):
		if duplicate != nil {
			return duplicate
		}
	}
	return storeError(err)
}
