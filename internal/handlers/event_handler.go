package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"circuithub_backend/internal/middleware"
	"circuithub_backend/internal/models"
	"circuithub_backend/internal/services"
	"circuithub_backend/internal/services/dto"
)

type EventHandler struct {
	*BaseHandler
	eventService services.EventService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService) *EventHandler {
	return &EventHandler{
		BaseHandler:  base,
		eventService: eventService,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/events")
	{
		events.GET("", h.List)
		events.GET("/upcoming", h.ListUpcoming)
		events.GET("/:eventId", h.Get)
	}

	admin := r.Group("/events")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.RoleAdmin))
	{
		admin.POST("", h.Create)
		admin.PUT("/:eventId", h.Update)
		admin.DELETE("/:eventId", h.Delete)
	}
}

func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.eventService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *EventHandler) Get(c *gin.Context) {
	resp, err := h.eventService.Get(c.Param("eventId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.eventService.List(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) ListUpcoming(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 5)
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	resp, err := h.eventService.ListUpcoming(limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": resp})
}

func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.eventService.Update(userID, c.Param("eventId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.eventService.Delete(userID, c.Param("eventId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}
