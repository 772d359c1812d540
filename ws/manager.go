package ws

import (
	"sync"

	"circuithub_backend/internal/logger"
)

// WebSocketManager tracks connected clients per user and fans notification
// payloads out to every connection a user has open.
type WebSocketManager struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			if manager.clients[client.UserID] == nil {
				manager.clients[client.UserID] = make(map[*Client]bool)
			}
			manager.clients[client.UserID][client] = true
			manager.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-manager.unregister:
			manager.mu.Lock()
			if conns, ok := manager.clients[client.UserID]; ok && conns[client] {
				delete(conns, client)
				close(client.Send)
				if len(conns) == 0 {
					delete(manager.clients, client.UserID)
				}
				logger.Debug("ws client unregistered", "user_id", client.UserID)
			}
			manager.mu.Unlock()
		}
	}
}

// PublishToUser delivers a payload to all of the user's open connections.
// Delivery is best-effort: a connection that cannot keep up is dropped
// rather than allowed to block the caller.
func (manager *WebSocketManager) PublishToUser(userID string, payload any) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for client := range manager.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			go func(c *Client) {
				manager.unregister <- c
			}(client)
			logger.Warn("ws client dropped: send buffer full", "user_id", userID)
		}
	}
}

// ConnectionCount reports how many connections a user has open.
func (manager *WebSocketManager) ConnectionCount(userID string) int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID])
}
