package model

// SeatStatus is the closed set of states a physical seat moves through.
type SeatStatus string

const (
	SeatOpen     SeatStatus = "OPEN"     // nobody at the seat, may be reserved
	SeatHeld     SeatStatus = "HELD"     // reserved for a called player, TTL running
	SeatOccupied SeatStatus = "OCCUPIED" // player seated and playing
)

// seatTransitions lists every allowed (from, to) pair.  OCCUPIED → OPEN is
// the stand-up path driven by a floor operator.
var seatTransitions = map[SeatStatus][]SeatStatus{
	SeatOpen:     {SeatHeld},
	SeatHeld:     {SeatOccupied, SeatOpen},
	SeatOccupied: {SeatOpen},
}

// CanTransition reports whether moving from s to next is allowed.
func (s SeatStatus) CanTransition(next SeatStatus) bool {
	for _, t := range seatTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a member of the closed set.
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatOpen, SeatHeld, SeatOccupied:
		return true
	}
	return false
}

// Seat is one chair at a poker table.  (TableID, SeatNo) is unique and
// OccupantID is set exactly when the status is not OPEN.
type Seat struct {
	TableID    uint64     // seats.table_id
	SeatNo     int        // seats.seat_no (1-based)
	Status     SeatStatus // seats.status
	OccupantID *uint64    // seats.occupant_id (nullable; set iff status != OPEN)
}
