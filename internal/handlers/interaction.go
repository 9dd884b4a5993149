package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialbase/socialbase/internal/services"
)

type InteractionHandler struct {
	interactionService *services.PostInteractionService
}

func NewInteractionHandler(interactionService *services.PostInteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// CreatePost writes a post onto the recipient's profile given by the route.
func (h *InteractionHandler) CreatePost(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.interactionService.CreatePost(c.Request.Context(), c.GetString("user_id"), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *InteractionHandler) GetPost(c *gin.Context) {
	post, err := h.interactionService.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *InteractionHandler) GetPostStats(c *gin.Context) {
	stats, err := h.interactionService.GetPostStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *InteractionHandler) DeletePost(c *gin.Context) {
	err := h.interactionService.DeletePost(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *InteractionHandler) LikePost(c *gin.Context) {
	err := h.interactionService.LikePost(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (h *InteractionHandler) UnlikePost(c *gin.Context) {
	err := h.interactionService.UnlikePost(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *InteractionHandler) HasLiked(c *gin.Context) {
	liked, err := h.interactionService.HasLiked(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *InteractionHandler) CreateComment(c *gin.Context) {
	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.interactionService.CommentOnPost(c.Request.Context(), c.GetString("user_id"), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	err := h.interactionService.DeleteComment(c.Request.Context(), c.GetString("user_id"), c.Param("comment_id"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *InteractionHandler) ListComments(c *gin.Context) {
	cursor, limit, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.interactionService.PaginateComments(c.Request.Context(), c.Param("id"), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageEnvelope(page))
}
