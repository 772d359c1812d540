package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"circuithub_backend/internal/middleware"
	"circuithub_backend/internal/services"
	"circuithub_backend/internal/services/dto"
)

type ForumHandler struct {
	*BaseHandler
	forumService services.ForumService
}

func NewForumHandler(base *BaseHandler, forumService services.ForumService) *ForumHandler {
	return &ForumHandler{
		BaseHandler:  base,
		forumService: forumService,
	}
}

func (h *ForumHandler) RegisterRoutes(r *gin.RouterGroup) {
	forum := r.Group("/forum")
	{
		forum.GET("/posts", h.ListPosts)
		forum.GET("/posts/:postId", h.GetPost)
	}

	protected := r.Group("/forum")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/posts", h.CreatePost)
		protected.PUT("/posts/:postId", h.UpdatePost)
		protected.DELETE("/posts/:postId", h.DeletePost)
		protected.POST("/posts/:postId/comments", h.CreateComment)
		protected.DELETE("/comments/:commentId", h.DeleteComment)
	}
}

func (h *ForumHandler) CreatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateForumPostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.forumService.CreatePost(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ForumHandler) GetPost(c *gin.Context) {
	resp, err := h.forumService.GetPost(c.Param("postId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ForumHandler) ListPosts(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.forumService.ListPosts(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ForumHandler) UpdatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateForumPostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.forumService.UpdatePost(userID, c.Param("postId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ForumHandler) DeletePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.forumService.DeletePost(userID, c.Param("postId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *ForumHandler) CreateComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateForumCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.forumService.CreateComment(userID, c.Param("postId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ForumHandler) DeleteComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.forumService.DeleteComment(userID, c.Param("commentId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
