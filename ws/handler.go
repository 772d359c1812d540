package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/middleware"
	"circuithub_backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the portal origin once the frontend domain is final
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	Manager             *WebSocketManager
	NotificationService services.NotificationService
}

func NewWebSocketHandler(manager *WebSocketManager, notificationService services.NotificationService) *WebSocketHandler {
	return &WebSocketHandler{
		Manager:             manager,
		NotificationService: notificationService,
	}
}

// ServeWS upgrades an authenticated request. The route runs behind
// AuthMiddleware, so the user id comes from the verified token.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("ws upgrade failed", "user_id", userID)
		return
	}

	client := &Client{
		UserID:              userID,
		Conn:                conn,
		Send:                make(chan any, 256),
		Manager:             h.Manager,
		NotificationService: h.NotificationService,
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}
