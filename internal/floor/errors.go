// Package floor implements the cash-game seat reservation and waitlist
// coordination engine: the per-game waitlist ledger, time-bounded seat
// holds, the atomic hold-to-seat claim, and advisory table balancing.
// Persistence is abstracted behind the Store interface so the engine runs
// unchanged against MySQL in production and the in-memory store in tests.
package floor

import "errors"

// Sentinel errors returned by the engine and the Store implementations.
// Handlers translate these into HTTP responses; compare with errors.Is
// since lower layers wrap them with context.
var (
	// ErrAlreadyInQueue is returned by Join when an entry for the same
	// (list, user) pair already exists.
	ErrAlreadyInQueue = errors.New("already in queue")

	// ErrQueueEntryNotFound is returned when the referenced queue entry
	// does not exist (including a second Leave on the same entry).
	ErrQueueEntryNotFound = errors.New("queue entry not found")

	// ErrListNotFound is returned when the referenced game list does not exist.
	ErrListNotFound = errors.New("game list not found")

	// ErrSeatNotFound is returned when the referenced (table, seat) does not exist.
	ErrSeatNotFound = errors.New("seat not found")

	// ErrSeatUnavailable is returned when a seat is not open when expected,
	// or when a conditional state transition lost a race to a concurrent
	// claim or expiry sweep.
	ErrSeatUnavailable = errors.New("seat no longer available")

	// ErrHoldNotFound is returned when the referenced seat hold does not exist.
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldNotOwned is returned by Claim when the caller is not the user
	// the hold was issued for.
	ErrHoldNotOwned = errors.New("hold not owned by caller")

	// ErrEntryNotOwned is returned by Leave and CheckIn when a player acts
	// on a queue entry that belongs to someone else.  Staff callers are
	// exempt.
	ErrEntryNotOwned = errors.New("entry not owned by caller")

	// ErrHoldExpired is returned by Claim when the hold's TTL has run out
	// or the hold already left the ACTIVE state.
	ErrHoldExpired = errors.New("your hold expired")

	// ErrTableNotFound is returned when a referenced table does not exist.
	ErrTableNotFound = errors.New("table not found")

	// ErrInsufficientSelection is returned by Balance when fewer than two
	// distinct tables were selected.
	ErrInsufficientSelection = errors.New("balancing requires at least two tables")

	// ErrValidation is returned for malformed input, before any shared
	// state is touched.
	ErrValidation = errors.New("validation error")

	// ErrStoreTimeout is returned when a store call exhausted its deadline.
	// It is transient; callers may retry the operation.
	ErrStoreTimeout = errors.New("store timeout")
)
