package floor

import (
	"context"
	"time"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

// Store is the persistence boundary of the engine.  Every method that
// mutates state is a single atomic transaction on the backing store; the
// seat-hold methods in particular are conditional transitions
// (compare-and-swap on the stored status), not read-then-write pairs, so
// a late claim and a concurrent expiry sweep can never both apply.
//
// Implementations must carry a per-call timeout and surface deadline
// exhaustion as ErrStoreTimeout.
type Store interface {
	// AppendQueueEntry inserts a queue entry at position waitCount+1 with
	// status REMOTE and increments the list's wait count, all in one
	// transaction.  Fails with ErrListNotFound, ErrValidation (closed
	// list) or ErrAlreadyInQueue.
	AppendQueueEntry(ctx context.Context, listID, userID uint64) (*model.QueueEntry, error)

	// RemoveQueueEntry deletes the entry, decrements the position of every
	// later entry in the same list by one and decrements the wait count
	// (floored at zero), all in one transaction.  Returns the removed
	// entry or ErrQueueEntryNotFound.
	RemoveQueueEntry(ctx context.Context, entryID uint64) (*model.QueueEntry, error)

	// MarkCheckedIn sets the entry's checkin status to ON_SITE and records
	// the check-in time.  The position never changes.  Calling it on an
	// entry that is already ON_SITE is a no-op.
	MarkCheckedIn(ctx context.Context, entryID uint64) (*model.QueueEntry, error)

	// QueueEntry returns a single entry or ErrQueueEntryNotFound.
	QueueEntry(ctx context.Context, entryID uint64) (*model.QueueEntry, error)

	// ListQueue returns the entries of a list ordered by position.
	ListQueue(ctx context.Context, listID uint64) ([]model.QueueEntry, error)

	// GameLists returns all game lists with their current wait counts.
	GameLists(ctx context.Context) ([]model.GameList, error)

	// ReserveSeat flips the seat from OPEN to HELD for the entry's user,
	// inserts an ACTIVE hold with the given token and deadline and moves
	// the entry to CALLED, all in one transaction conditioned on the seat
	// still being OPEN.  Fails with ErrQueueEntryNotFound, ErrSeatNotFound
	// or ErrSeatUnavailable; a failure mutates nothing.
	ReserveSeat(ctx context.Context, entryID, tableID uint64, seatNo int, token string, expiresAt time.Time) (*model.SeatHold, error)

	// ClaimSeat settles the hold to CLAIMED and the seat to OCCUPIED,
	// removes the owning queue entry (with renumbering) and bumps the
	// table's player count, all in one transaction conditioned on the hold
	// still being ACTIVE and the seat still HELD for the hold's user.
	// Fails with ErrHoldNotFound or ErrSeatUnavailable (lost the race).
	ClaimSeat(ctx context.Context, holdID uint64) (*model.SeatHold, error)

	// ReleaseHold settles an ACTIVE hold to EXPIRED or CANCELLED, reopens
	// the seat and reverts the queue entry's checkin status without
	// touching its position, all in one transaction conditioned on the
	// hold still being ACTIVE.  Fails with ErrHoldNotFound or
	// ErrSeatUnavailable (hold already settled).
	ReleaseHold(ctx context.Context, holdID uint64, to model.HoldStatus) (*model.SeatHold, error)

	// Hold returns a single hold or ErrHoldNotFound.
	Hold(ctx context.Context, holdID uint64) (*model.SeatHold, error)

	// ExpiredHoldIDs returns the ids of ACTIVE holds whose deadline is at
	// or before now.
	ExpiredHoldIDs(ctx context.Context, now time.Time) ([]uint64, error)

	// Tables returns the selected tables, or every table when ids is nil.
	// A missing id fails with ErrTableNotFound.
	Tables(ctx context.Context, ids []uint64) ([]model.PokerTable, error)

	// TableSeats returns a table's seats ordered by seat number.
	TableSeats(ctx context.Context, tableID uint64) ([]model.Seat, error)

	// AppendAudit appends one audit record.  Best-effort: the engine logs
	// a failure and never propagates it.
	AppendAudit(ctx context.Context, rec model.AuditRecord) error
}
