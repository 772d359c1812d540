package services

// NotificationPublisher pushes a payload to every connected client of one
// user. Implemented by the websocket hub; delivery is best-effort and
// at-least-once relative to inbox reads.
type NotificationPublisher interface {
	PublishToUser(userID string, payload any)
}
