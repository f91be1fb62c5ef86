package model

import "time"

// HoldStatus is the closed set of states a seat hold moves through.
// ACTIVE is the only non-final state; exactly one of the outgoing
// transitions may ever apply to a given hold.
type HoldStatus string

const (
	HoldActive    HoldStatus = "ACTIVE"    // TTL running, claim possible
	HoldClaimed   HoldStatus = "CLAIMED"   // converted into an occupied seat
	HoldExpired   HoldStatus = "EXPIRED"   // TTL ran out before the claim
	HoldCancelled HoldStatus = "CANCELLED" // released by a floor operator
)

var holdTransitions = map[HoldStatus][]HoldStatus{
	HoldActive: {HoldClaimed, HoldExpired, HoldCancelled},
}

// CanTransition reports whether moving from s to next is allowed.  All
// states except ACTIVE are final.
func (s HoldStatus) CanTransition(next HoldStatus) bool {
	for _, t := range holdTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a member of the closed set.
func (s HoldStatus) Valid() bool {
	switch s {
	case HoldActive, HoldClaimed, HoldExpired, HoldCancelled:
		return true
	}
	return false
}

// SeatHold is a time-bounded reservation of one seat for one called
// player.  At most one ACTIVE hold exists per (TableID, SeatNo); holds are
// never reused once they leave ACTIVE.
//
// Fields:
//  ID        – primary key identifier.
//  EntryID   – queue entry that was called for this hold.
//  UserID    – player the seat is reserved for.
//  TableID   – table of the held seat.
//  SeatNo    – seat number at the table.
//  Token     – opaque token returned to the client for correlation.
//  Status    – ACTIVE, CLAIMED, EXPIRED or CANCELLED.
//  ExpiresAt – when the hold auto-expires; always after CreatedAt.
//  CreatedAt – when the hold was issued.
type SeatHold struct {
	ID        uint64     // seat_holds.id
	EntryID   uint64     // seat_holds.entry_id
	UserID    uint64     // seat_holds.user_id
	TableID   uint64     // seat_holds.table_id
	SeatNo    int        // seat_holds.seat_no
	Token     string     // seat_holds.token
	Status    HoldStatus // seat_holds.status
	ExpiresAt time.Time  // seat_holds.expires_at
	CreatedAt time.Time  // seat_holds.created_at
}

// Expired reports whether the hold's deadline has passed at the given
// instant.  It says nothing about the stored status; callers still need
// the conditional transition to settle a race against a claim.
func (h *SeatHold) Expired(now time.Time) bool {
	return now.After(h.ExpiresAt)
}
