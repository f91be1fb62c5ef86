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

// SeatClaimCoordinator atomically promotes a valid hold into an occupied
// seat.  Exactly one of claim and expiry ever applies to a given hold:
// both paths go through a conditional transition on the hold's ACTIVE
// status, so the loser of the race observes the settled state and fails.
type SeatClaimCoordinator struct {
	store Store
	holds *SeatHoldManager
	feed  EventPublisher
	log   *zap.SugaredLogger

	retryBackoff time.Duration
	now          func() time.Time
}

// NewSeatClaimCoordinator constructs a SeatClaimCoordinator.  The hold
// manager is needed to settle overdue holds found by the lazy check.
func NewSeatClaimCoordinator(store Store, holds *SeatHoldManager, feed EventPublisher, log *zap.SugaredLogger) *SeatClaimCoordinator {
	if store == nil || holds == nil || feed == nil || log == nil {
		panic("nil dependency passed to NewSeatClaimCoordinator")
	}
	return &SeatClaimCoordinator{
		store:        store,
		holds:        holds,
		feed:         feed,
		log:          log,
		retryBackoff: 100 * time.Millisecond,
		now:          time.Now,
	}
}

// Claim converts the caller's hold into an occupied seat and removes the
// caller's queue entry.  Ownership and expiry are checked first; an
// overdue hold is settled to EXPIRED right here so staleness never
// outlives a claim attempt.  The claim itself is a single conditional
// transaction; losing it to a concurrent expiry sweep surfaces as
// ErrHoldExpired (the hold is gone) or ErrSeatUnavailable.
func (c *SeatClaimCoordinator) Claim(ctx context.Context, holdID, userID uint64) (*model.SeatHold, error) {
	if holdID == 0 || userID == 0 {
		return nil, fmt.Errorf("%w: hold id and user id are required", ErrValidation)
	}
	h, err := c.store.Hold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if h.UserID != userID {
		appendAudit(ctx, c.store, c.log, userID, "hold.claim", "seat_hold", holdID,
			holdSummary(h), "-", ErrHoldNotOwned)
		return nil, ErrHoldNotOwned
	}
	if h.Status != model.HoldActive {
		return nil, ErrHoldExpired
	}
	if h.Expired(c.now()) {
		// Lazy expiry: drive the release ourselves instead of waiting for
		// the next sweep tick.
		if expErr := c.holds.Expire(ctx, holdID); expErr != nil {
			c.log.Warnw("lazy hold expiry failed", "hold_id", holdID, "error", expErr)
		}
		appendAudit(ctx, c.store, c.log, userID, "hold.claim", "seat_hold", holdID,
			holdSummary(h), "-", ErrHoldExpired)
		return nil, ErrHoldExpired
	}

	claimed, err := c.store.ClaimSeat(ctx, holdID)
	if errors.Is(err, ErrSeatUnavailable) {
		time.Sleep(c.retryBackoff)
		claimed, err = c.store.ClaimSeat(ctx, holdID)
	}
	appendAudit(ctx, c.store, c.log, userID, "hold.claim", "seat_hold", holdID,
		holdSummary(h), holdSummary(claimed), err)
	if err != nil {
		if errors.Is(err, ErrSeatUnavailable) {
			// Lost the race; report what actually happened to the hold.
			if cur, readErr := c.store.Hold(ctx, holdID); readErr == nil && cur.Status == model.HoldExpired {
				return nil, ErrHoldExpired
			}
		}
		return nil, err
	}
	c.log.Infow("seat claimed", "hold_id", claimed.ID, "user_id", userID, "table_id", claimed.TableID, "seat_no", claimed.SeatNo)
	c.feed.Publish(ctx, Event{
		ID:       uuid.NewString(),
		Kind:     EventSeatClaimed,
		Entity:   "seat_hold",
		EntityID: claimed.ID,
		UserID:   userID,
		At:       c.now().UTC(),
		Fields: map[string]any{
			"table_id": claimed.TableID,
			"seat_no":  claimed.SeatNo,
		},
	})
	return claimed, nil
}
