package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"circuithub_backend/internal/logger"
	"circuithub_backend/internal/services"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan any

	Manager             *WebSocketManager
	NotificationService services.NotificationService
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "user_id", c.UserID, "error", err)
			}
			break
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Debug("ws message parse failed", "user_id", c.UserID, "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				logger.Debug("ws write error", "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes client-initiated actions. The socket is mostly a
// push channel; the only inbound actions are read acknowledgements.
func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {

	case "mark_as_read":
		var payload struct {
			NotificationID string `json:"notification_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Debug("ws invalid mark_as_read payload", "user_id", c.UserID, "error", err)
			return
		}
		if err := c.NotificationService.MarkAsRead(c.UserID, payload.NotificationID); err != nil {
			logger.Debug("ws mark_as_read failed", "user_id", c.UserID, "error", err)
		}

	case "mark_all_read":
		if err := c.NotificationService.MarkAllAsRead(c.UserID); err != nil {
			logger.Debug("ws mark_all_read failed", "user_id", c.UserID, "error", err)
		}

	default:
		logger.Debug("ws unhandled action", "user_id", c.UserID, "action", msg.Action)
	}
}
