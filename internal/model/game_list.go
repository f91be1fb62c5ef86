package model

import "time"

// ListStatus describes whether a game list is accepting new players.
type ListStatus string

const (
	ListOpen   ListStatus = "OPEN"   // list accepts joins
	ListClosed ListStatus = "CLOSED" // list is closed; joins are rejected
)

// GameList is one cash-game waitlist on the floor, e.g. "1/2 NLH".
// WaitCount counts every live entry on the list regardless of check-in
// status, including on-site players; a checked-in player is still waiting
// for a seat, and Join hands out position = WaitCount + 1, so excluding
// anyone would produce duplicate positions.  The counter is maintained
// inside the same transaction that inserts or deletes entries and can
// always be recomputed from the queue_entries table.
//
// Fields:
//  ID        – primary key identifier.
//  GameLabel – human-readable game + stakes label shown on the board.
//  Capacity  – seats per table for this game (informational).
//  OpenSeats – seats currently open across the game's tables.
//  WaitCount – live entries on the list, whatever their check-in status.
//  Status    – OPEN or CLOSED.
type GameList struct {
	ID        uint64     // game_lists.id
	GameLabel string     // game_lists.game_label
	Capacity  int        // game_lists.capacity
	OpenSeats int        // game_lists.open_seats
	WaitCount int        // game_lists.wait_count
	Status    ListStatus // game_lists.status
	CreatedAt time.Time  // game_lists.created_at
}
