package floor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

// QueueLedger maintains the ordered, positioned waitlist of every game
// list.  Positions strictly reflect join order; check-in never reorders.
type QueueLedger struct {
	store Store
	feed  EventPublisher
	log   *zap.SugaredLogger
}

// NewQueueLedger constructs a QueueLedger.  feed may be a NopPublisher.
func NewQueueLedger(store Store, feed EventPublisher, log *zap.SugaredLogger) *QueueLedger {
	if store == nil || feed == nil || log == nil {
		panic("nil dependency passed to NewQueueLedger")
	}
	return &QueueLedger{store: store, feed: feed, log: log}
}

// Join adds the player to the back of the list and returns the new entry.
// Fails with ErrAlreadyInQueue when an entry for (listID, userID) exists.
func (l *QueueLedger) Join(ctx context.Context, listID, userID uint64) (*model.QueueEntry, error) {
	if listID == 0 || userID == 0 {
		return nil, fmt.Errorf("%w: list id and user id are required", ErrValidation)
	}
	entry, err := l.store.AppendQueueEntry(ctx, listID, userID)
	appendAudit(ctx, l.store, l.log, userID, "queue.join", "queue_entry", entryID(entry),
		"-", entrySummary(entry), err)
	if err != nil {
		return nil, err
	}
	l.log.Infow("player joined queue", "list_id", listID, "user_id", userID, "entry_id", entry.ID, "position", entry.Position)
	l.publish(ctx, EventQueueJoined, entry, map[string]any{"position": entry.Position})
	return entry, nil
}

// Leave removes the entry and renumbers everything behind it.  The delete
// and the renumbering commit together, so positions stay dense under
// concurrent leaves.  A second Leave on the same entry fails with
// ErrQueueEntryNotFound and decrements nothing.  A player may only remove
// their own entry; pass staff=true for floor operators, who may remove
// anyone.
func (l *QueueLedger) Leave(ctx context.Context, entryID, actorID uint64, staff bool) error {
	if entryID == 0 {
		return fmt.Errorf("%w: entry id is required", ErrValidation)
	}
	if err := l.authorize(ctx, entryID, actorID, staff); err != nil {
		appendAudit(ctx, l.store, l.log, actorID, "queue.leave", "queue_entry", entryID, "-", "-", err)
		return err
	}
	entry, err := l.store.RemoveQueueEntry(ctx, entryID)
	appendAudit(ctx, l.store, l.log, actorID, "queue.leave", "queue_entry", entryID,
		entrySummary(entry), "removed", err)
	if err != nil {
		return err
	}
	l.log.Infow("player left queue", "list_id", entry.ListID, "user_id", entry.UserID, "entry_id", entry.ID, "position", entry.Position)
	l.publish(ctx, EventQueueLeft, entry, nil)
	return nil
}

// CheckIn marks the player as physically present.  The position does not
// change; only the checkin status moves to ON_SITE.  Ownership is
// enforced the same way as Leave: players check in themselves, staff may
// check in anyone (a podium attendant confirming an arrival).
func (l *QueueLedger) CheckIn(ctx context.Context, entryID, actorID uint64, staff bool) (*model.QueueEntry, error) {
	if entryID == 0 {
		return nil, fmt.Errorf("%w: entry id is required", ErrValidation)
	}
	if err := l.authorize(ctx, entryID, actorID, staff); err != nil {
		appendAudit(ctx, l.store, l.log, actorID, "queue.checkin", "queue_entry", entryID, "-", "-", err)
		return nil, err
	}
	entry, err := l.store.MarkCheckedIn(ctx, entryID)
	appendAudit(ctx, l.store, l.log, actorID, "queue.checkin", "queue_entry", entryID,
		"-", entrySummary(entry), err)
	if err != nil {
		return nil, err
	}
	l.log.Infow("player checked in", "list_id", entry.ListID, "user_id", entry.UserID, "entry_id", entry.ID)
	l.publish(ctx, EventQueueCheckedIn, entry, nil)
	return entry, nil
}

// authorize rejects players acting on entries they do not own.  The
// check reads the entry outside the mutating transaction, which is safe
// because an entry's owning user never changes after Join.
func (l *QueueLedger) authorize(ctx context.Context, entryID, actorID uint64, staff bool) error {
	if staff {
		return nil
	}
	entry, err := l.store.QueueEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != actorID {
		return fmt.Errorf("%w: entry %d", ErrEntryNotOwned, entryID)
	}
	return nil
}

// Queue returns the list's entries ordered by position.
func (l *QueueLedger) Queue(ctx context.Context, listID uint64) ([]model.QueueEntry, error) {
	if listID == 0 {
		return nil, fmt.Errorf("%w: list id is required", ErrValidation)
	}
	return l.store.ListQueue(ctx, listID)
}

// Lists returns every game list with its current wait count.
func (l *QueueLedger) Lists(ctx context.Context) ([]model.GameList, error) {
	return l.store.GameLists(ctx)
}

func (l *QueueLedger) publish(ctx context.Context, kind string, entry *model.QueueEntry, fields map[string]any) {
	l.feed.Publish(ctx, Event{
		ID:       uuid.NewString(),
		Kind:     kind,
		Entity:   "queue_entry",
		EntityID: entry.ID,
		UserID:   entry.UserID,
		At:       time.Now().UTC(),
		Fields:   fields,
	})
}

func entryID(e *model.QueueEntry) uint64 {
	if e == nil {
		return 0
	}
	return e.ID
}

func entrySummary(e *model.QueueEntry) string {
	if e == nil {
		return "-"
	}
	return fmt.Sprintf("list=%d user=%d pos=%d status=%s", e.ListID, e.UserID, e.Position, e.CheckinStatus)
}
