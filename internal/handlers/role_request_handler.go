package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"circuithub_backend/internal/middleware"
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/repositories"
	"circuithub_backend/internal/services"
	"circuithub_backend/internal/services/dto"
)

type RoleRequestHandler struct {
	*BaseHandler
	roleRequestService services.RoleRequestService
}

func NewRoleRequestHandler(base *BaseHandler, roleRequestService services.RoleRequestService) *RoleRequestHandler {
	return &RoleRequestHandler{
		BaseHandler:        base,
		roleRequestService: roleRequestService,
	}
}

func (h *RoleRequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/role-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", h.Submit)
		requests.GET("/mine", h.ListMine)
	}

	// The role middleware is a coarse filter on the token claim; the service
	// re-reads the actor's profile before every decision.
	admin := r.Group("/admin/role-requests")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.RoleAdmin))
	{
		admin.GET("", h.ListAll)
		admin.POST("/:requestId/approve", h.Approve)
		admin.POST("/:requestId/reject", h.Reject)
	}
}

func (h *RoleRequestHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitRoleRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.roleRequestService.Submit(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *RoleRequestHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requests, err := h.roleRequestService.ListMine(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *RoleRequestHandler) ListAll(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	filter := repositories.RoleRequestFilter{
		Status:   models.RoleRequestStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}

	resp, err := h.roleRequestService.ListAll(userID, filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RoleRequestHandler) Approve(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.roleRequestService.Approve(userID, c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RoleRequestHandler) Reject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewRoleRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.roleRequestService.Reject(userID, c.Param("requestId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
