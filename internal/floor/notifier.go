package floor

import (
	"context"
	"time"
)

// Notification kinds sent to the external dispatcher.
const (
	NotifySeatReady     = "seat_ready"
	NotifyHoldExpired   = "hold_expired"
	NotifyHoldCancelled = "hold_cancelled"
)

// Notifier is the narrow interface to the external notification service.
// Calls are fire-and-forget: implementations log failures and never
// return them, so a broken broker can never fail a primary operation.
type Notifier interface {
	Notify(ctx context.Context, userID uint64, kind string, payload map[string]any)
}

// Event kinds published on the change feed after a committed transition.
const (
	EventQueueJoined    = "queue.joined"
	EventQueueLeft      = "queue.left"
	EventQueueCheckedIn = "queue.checked_in"
	EventSeatHeld       = "seat.held"
	EventSeatClaimed    = "seat.claimed"
	EventHoldExpired    = "hold.expired"
	EventHoldCancelled  = "hold.cancelled"
)

// Event is one committed state transition, published for the presentation
// layer's live board.  Fan-out to subscribers is the transport's problem;
// the engine only publishes.
type Event struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Entity   string         `json:"entity"`
	EntityID uint64         `json:"entity_id"`
	UserID   uint64         `json:"user_id,omitempty"`
	At       time.Time      `json:"at"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// EventPublisher publishes change-feed events.  Best-effort, same
// contract as Notifier.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event)
}

// NopNotifier discards notifications.  Used in tests and the simulator.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, uint64, string, map[string]any) {}

// NopPublisher discards change-feed events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
