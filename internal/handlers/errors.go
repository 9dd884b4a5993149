package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/socialbase/socialbase/internal/services"
	"github.com/socialbase/socialbase/pkg/pagination"
)

// statusFor maps domain failures onto HTTP statuses; the services never
// leak store specifics, so this table is the entire response-shaping policy.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSelfRelation),
		errors.Is(err, pagination.ErrInvalidCursor):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserInactive):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrBlocked),
		errors.Is(err, services.ErrNotCommentOwner),
		errors.Is(err, services.ErrNotPostOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrFollowNotFound),
		errors.Is(err, services.ErrFollowRequestNotFound),
		errors.Is(err, services.ErrFriendRequestNotFound),
		errors.Is(err, services.ErrFriendshipNotFound),
		errors.Is(err, services.ErrBlockNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrNotLiked):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyFollowing),
		errors.Is(err, services.ErrAlreadyRequested),
		errors.Is(err, services.ErrAlreadyFriends),
		errors.Is(err, services.ErrAlreadyBlocked),
		errors.Is(err, services.ErrAlreadyLiked),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrStore):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func pageParams(c *gin.Context) (*pagination.Cursor, int, error) {
	cursor, err := pagination.Decode(c.Query("cursor"))
	if err != nil {
		return nil, 0, err
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return nil, 0, pagination.ErrInvalidCursor
		}
	}
	return cursor, limit, nil
}

// pageEnvelope serializes a page with the cursor re-encoded as an opaque
// token.
func pageEnvelope[T any](page *pagination.Page[T]) gin.H {
	var next *string
	if page.NextCursor != nil {
		token := page.NextCursor.Encode()
		next = &token
	}
	return gin.H{"items": page.Items, "next_cursor": next}
}
