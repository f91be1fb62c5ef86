package floor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

// DefaultHoldTTL applies when Reserve is called without an explicit TTL.
const DefaultHoldTTL = 5 * time.Minute

// DefaultSweepInterval bounds how stale an unexpired-but-overdue hold can
// get before the background sweep releases it.
const DefaultSweepInterval = 30 * time.Second

// SeatHoldManager issues, cancels and expires time-bounded seat holds.
// Expiry is driven by a recurring sweep plus the lazy check inside Claim,
// so staleness never exceeds one sweep interval or one claim attempt.
type SeatHoldManager struct {
	store    Store
	notifier Notifier
	feed     EventPublisher
	log      *zap.SugaredLogger

	defaultTTL   time.Duration
	retryBackoff time.Duration
	now          func() time.Time
}

// NewSeatHoldManager constructs a SeatHoldManager.  A non-positive
// defaultTTL falls back to DefaultHoldTTL.
func NewSeatHoldManager(store Store, notifier Notifier, feed EventPublisher, log *zap.SugaredLogger, defaultTTL time.Duration) *SeatHoldManager {
	if store == nil || notifier == nil || feed == nil || log == nil {
		panic("nil dependency passed to NewSeatHoldManager")
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultHoldTTL
	}
	return &SeatHoldManager{
		store:        store,
		notifier:     notifier,
		feed:         feed,
		log:          log,
		defaultTTL:   defaultTTL,
		retryBackoff: 100 * time.Millisecond,
		now:          time.Now,
	}
}

// Reserve locks an open seat for the queue entry's player and starts the
// TTL.  The seat flip, the hold insert and the entry's move to CALLED
// commit as one conditional transaction; the notify trigger and the feed
// publish run only after that commit.  A lost compare-and-swap is retried
// once after a short backoff, then surfaced as ErrSeatUnavailable.
func (m *SeatHoldManager) Reserve(ctx context.Context, actorID, entryID, tableID uint64, seatNo int, ttl time.Duration) (*model.SeatHold, error) {
	if entryID == 0 || tableID == 0 || seatNo < 1 {
		return nil, fmt.Errorf("%w: entry id, table id and seat number are required", ErrValidation)
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	token := uuid.NewString()
	expiresAt := m.now().UTC().Add(ttl)

	hold, err := m.store.ReserveSeat(ctx, entryID, tableID, seatNo, token, expiresAt)
	if errors.Is(err, ErrSeatUnavailable) {
		time.Sleep(m.retryBackoff)
		hold, err = m.store.ReserveSeat(ctx, entryID, tableID, seatNo, token, expiresAt)
	}
	appendAudit(ctx, m.store, m.log, actorID, "hold.reserve", "seat_hold", holdID(hold),
		fmt.Sprintf("seat %d@%d open", seatNo, tableID), holdSummary(hold), err)
	if err != nil {
		return nil, err
	}
	m.log.Infow("seat held", "hold_id", hold.ID, "user_id", hold.UserID, "table_id", tableID, "seat_no", seatNo, "expires_at", hold.ExpiresAt)
	m.notifier.Notify(ctx, hold.UserID, NotifySeatReady, map[string]any{
		"table_id":   hold.TableID,
		"seat_no":    hold.SeatNo,
		"hold_token": hold.Token,
		"expires_at": hold.ExpiresAt.Format(time.RFC3339),
	})
	m.publish(ctx, EventSeatHeld, hold)
	return hold, nil
}

// Cancel releases an active hold by explicit operator action.  The seat
// reopens and the queue entry keeps its place in line.  Cancelling a hold
// that already settled fails with ErrSeatUnavailable.
func (m *SeatHoldManager) Cancel(ctx context.Context, actorID, holdID uint64) error {
	if holdID == 0 {
		return fmt.Errorf("%w: hold id is required", ErrValidation)
	}
	return m.release(ctx, actorID, holdID, model.HoldCancelled)
}

// Expire releases the hold when its deadline has passed.  It is a no-op
// when the hold is not yet due or already settled, so the sweep and the
// lazy check inside Claim can both call it without coordination.
func (m *SeatHoldManager) Expire(ctx context.Context, holdID uint64) error {
	h, err := m.store.Hold(ctx, holdID)
	if err != nil {
		return err
	}
	if h.Status != model.HoldActive || !h.Expired(m.now()) {
		return nil
	}
	err = m.release(ctx, 0, holdID, model.HoldExpired)
	if errors.Is(err, ErrSeatUnavailable) {
		// Lost the race to a claim; the hold is settled either way.
		return nil
	}
	return err
}

// SweepOnce releases every hold whose deadline has passed and returns the
// number released.  Individual failures are logged and do not stop the
// sweep.
func (m *SeatHoldManager) SweepOnce(ctx context.Context) (int, error) {
	ids, err := m.store.ExpiredHoldIDs(ctx, m.now())
	if err != nil {
		return 0, err
	}
	released := 0
	for _, id := range ids {
		if err := m.Expire(ctx, id); err != nil {
			m.log.Warnw("hold expiry failed", "hold_id", id, "error", err)
			continue
		}
		released++
	}
	return released, nil
}

// RunSweeper runs SweepOnce on a fixed interval until the context is
// cancelled.  A non-positive interval falls back to DefaultSweepInterval.
func (m *SeatHoldManager) RunSweeper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	m.log.Infow("hold sweeper started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			m.log.Infow("hold sweeper stopped")
			return nil
		case <-ticker.C:
			n, err := m.SweepOnce(ctx)
			if err != nil {
				m.log.Warnw("hold sweep failed", "error", err)
				continue
			}
			if n > 0 {
				m.log.Infow("expired holds released", "count", n)
			}
		}
	}
}

func (m *SeatHoldManager) release(ctx context.Context, actorID, holdID uint64, to model.HoldStatus) error {
	hold, err := m.store.ReleaseHold(ctx, holdID, to)
	action := "hold.expire"
	if to == model.HoldCancelled {
		action = "hold.cancel"
	}
	appendAudit(ctx, m.store, m.log, actorID, action, "seat_hold", holdID,
		string(model.HoldActive), holdSummary(hold), err)
	if err != nil {
		return err
	}
	m.log.Infow("hold released", "hold_id", hold.ID, "user_id", hold.UserID, "status", hold.Status)
	kind, event := NotifyHoldExpired, EventHoldExpired
	if to == model.HoldCancelled {
		kind, event = NotifyHoldCancelled, EventHoldCancelled
	}
	m.notifier.Notify(ctx, hold.UserID, kind, map[string]any{
		"table_id": hold.TableID,
		"seat_no":  hold.SeatNo,
	})
	m.publish(ctx, event, hold)
	return nil
}

func (m *SeatHoldManager) publish(ctx context.Context, kind string, hold *model.SeatHold) {
	m.feed.Publish(ctx, Event{
		ID:       uuid.NewString(),
		Kind:     kind,
		Entity:   "seat_hold",
		EntityID: hold.ID,
		UserID:   hold.UserID,
		At:       m.now().UTC(),
		Fields: map[string]any{
			"table_id": hold.TableID,
			"seat_no":  hold.SeatNo,
			"status":   hold.Status,
		},
	})
}

func holdID(h *model.SeatHold) uint64 {
	if h == nil {
		return 0
	}
	return h.ID
}

func holdSummary(h *model.SeatHold) string {
	if h == nil {
		return "-"
	}
	return fmt.Sprintf("user=%d seat=%d@%d status=%s until=%s", h.UserID, h.SeatNo, h.TableID, h.Status, h.ExpiresAt.Format(time.RFC3339))
}
