package model

import "time"

// CheckinStatus is the closed set of waitlist states a queue entry moves
// through.  Transitions outside checkinTransitions are rejected by the
// engine and the store.
type CheckinStatus string

const (
	CheckinRemote  CheckinStatus = "REMOTE"  // joined remotely, not yet at the venue
	CheckinWaiting CheckinStatus = "WAITING" // released back to the line after a hold ended
	CheckinCalled  CheckinStatus = "CALLED"  // a seat hold is active for this entry
	CheckinOnSite  CheckinStatus = "ON_SITE" // physically present at the venue
)

// checkinTransitions lists every allowed (from, to) pair.  A called entry
// may fall back to WAITING or ON_SITE when its hold expires or is
// cancelled; which of the two depends on whether the player had checked
// in before being called.
var checkinTransitions = map[CheckinStatus][]CheckinStatus{
	CheckinRemote:  {CheckinWaiting, CheckinCalled, CheckinOnSite},
	CheckinWaiting: {CheckinCalled, CheckinOnSite},
	CheckinCalled:  {CheckinWaiting, CheckinOnSite},
	CheckinOnSite:  {CheckinCalled},
}

// CanTransition reports whether moving from s to next is allowed.
func (s CheckinStatus) CanTransition(next CheckinStatus) bool {
	for _, t := range checkinTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a member of the closed set.
func (s CheckinStatus) Valid() bool {
	switch s {
	case CheckinRemote, CheckinWaiting, CheckinCalled, CheckinOnSite:
		return true
	}
	return false
}

// QueueEntry is a player's place in a game list.  Positions are dense,
// unique per list and 1-based, ordered by join time; there is exactly one
// entry per (ListID, UserID).
//
// Fields:
//  ID            – primary key identifier.
//  ListID        – game list this entry belongs to.
//  UserID        – player who joined.
//  Position      – 1-based FIFO rank in the list.
//  CheckinStatus – REMOTE, WAITING, CALLED or ON_SITE.
//  CheckedInAt   – set once the player checks in; survives being called so
//                  an expired hold can restore ON_SITE instead of WAITING.
//  CreatedAt     – join time.
type QueueEntry struct {
	ID            uint64        // queue_entries.id
	ListID        uint64        // queue_entries.list_id
	UserID        uint64        // queue_entries.user_id
	Position      int           // queue_entries.position
	CheckinStatus CheckinStatus // queue_entries.checkin_status
	CheckedInAt   *time.Time    // queue_entries.checked_in_at (nullable)
	CreatedAt     time.Time     // queue_entries.created_at
}

// ReleaseStatus returns the checkin status an entry reverts to when its
// hold expires or is cancelled: ON_SITE if the player had checked in,
// WAITING otherwise.  The position is never touched on release.
func (e *QueueEntry) ReleaseStatus() CheckinStatus {
	if e.CheckedInAt != nil {
		return CheckinOnSite
	}
	return CheckinWaiting
}
