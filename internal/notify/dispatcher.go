// Package notify adapts the engine's outbound ports (Notifier, change
// feed) onto the actual transports: RabbitMQ for player notifications and
// Redis pub/sub for the live floor board.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yediy/daniacasino-sub001/internal/queue"
	notify_publisher "github.com/Yediy/daniacasino-sub001/internal/service"
)

// Dispatcher implements floor.Notifier over RabbitMQ.  Each call publishes
// one persistent message to the floor.notifications queue.  Failures are
// logged and swallowed; the notification service is an external
// collaborator and must never fail a seat operation.
type Dispatcher struct {
	url string
	log *zap.SugaredLogger
}

func NewDispatcher(url string, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{url: url, log: log}
}

func (d *Dispatcher) Notify(ctx context.Context, userID uint64, kind string, payload map[string]any) {
	event := queue.UserNotification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Kind:    kind,
		Payload: payload,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := notify_publisher.PublishUserNotification(ctx, d.url, event); err != nil {
		d.log.Warnw("notification publish failed", "user_id", userID, "kind", kind, "error", err)
	}
}
