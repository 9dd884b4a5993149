package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialbase/socialbase/internal/services"
)

// GraphHandler exposes the social graph operations. The authenticated user
// always acts as one side of the pair; the other side comes from the route.
type GraphHandler struct {
	graphService *services.SocialGraphService
}

func NewGraphHandler(graphService *services.SocialGraphService) *GraphHandler {
	return &GraphHandler{graphService: graphService}
}

func (h *GraphHandler) Follow(c *gin.Context) {
	err := h.graphService.Follow(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (h *GraphHandler) Unfollow(c *gin.Context) {
	err := h.graphService.Unfollow(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AcceptFollowRequest: the route id is the request sender; the authenticated
// user is the recipient deciding.
func (h *GraphHandler) AcceptFollowRequest(c *gin.Context) {
	err := h.graphService.AcceptFollowRequest(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GraphHandler) DeclineFollowRequest(c *gin.Context) {
	err := h.graphService.DeclineFollowRequest(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GraphHandler) CancelFollowRequest(c *gin.Context) {
	err := h.graphService.CancelFollowRequest(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GraphHandler) SendFriendRequest(c *gin.Context) {
	accepted, err := h.graphService.SendFriendRequest(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "accepted": accepted})
}

func (h *GraphHandler) AcceptFriendRequest(c *gin.Context) {
	err := h.graphService.AcceptFriendRequest(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GraphHandler) DeclineFriendRequest(c *gin.Context) {
	err := h.graphService.DeclineFriendRequest(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GraphHandler) CancelFriendRequest(c *gin.Context) {
	err := h.graphService.CancelFriendRequest(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GraphHandler) RemoveFriend(c *gin.Context) {
	err := h.graphService.RemoveFriend(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GraphHandler) Block(c *gin.Context) {
	err := h.graphService.Block(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (h *GraphHandler) Unblock(c *gin.Context) {
	err := h.graphService.Unblock(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *GraphHandler) ListFollowers(c *gin.Context) {
	cursor, limit, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.graphService.ListFollowers(c.Request.Context(), c.Param("id"), c.GetString("user_id"), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(page))
}

func (h *GraphHandler) ListFollowing(c *gin.Context) {
	cursor, limit, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.graphService.ListFollowing(c.Request.Context(), c.Param("id"), c.GetString("user_id"), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(page))
}

func (h *GraphHandler) ListFriends(c *gin.Context) {
	cursor, limit, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.graphService.ListFriends(c.Request.Context(), c.Param("id"), c.GetString("user_id"), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(page))
}

func (h *GraphHandler) ListFollowRequests(c *gin.Context) {
	cursor, limit, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.graphService.ListFollowRequests(c.Request.Context(), c.GetString("user_id"), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(page))
}

func (h *GraphHandler) ListFriendRequests(c *gin.Context) {
	cursor, limit, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.graphService.ListFriendRequests(c.Request.Context(), c.GetString("user_id"), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(page))
}
