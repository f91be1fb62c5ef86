// Package queue defines message payloads exchanged over the message broker.
package queue

// NotifyQueueName is the durable queue the engine publishes notification
// triggers to.  The external delivery service (SMS/push) consumes it; in
// local development the bundled consumer drains it into a log file.
const NotifyQueueName = "floor.notifications"

// UserNotification is published whenever the engine wants a player told
// about something: a seat is ready, a hold expired or was cancelled.  It
// carries enough for downstream delivery without querying the primary
// database.
type UserNotification struct {
	ID      string         `json:"id"`
	UserID  uint64         `json:"user_id"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload,omitempty"`
	SentAt  string         `json:"sent_at"`
}
