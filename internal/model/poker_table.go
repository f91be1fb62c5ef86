package model

// PokerTable is one physical table on the floor.  PlayersCount mirrors the
// number of OCCUPIED seats at the table and is maintained inside the same
// transaction that flips a seat's status.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – table name shown to operators (e.g. "T7").
//  Game         – game dealt at the table.
//  Stakes       – stakes tier label (e.g. "1/2"); balancing assumes the
//                 caller selected tables of the same tier.
//  MaxSeats     – number of chairs at the table.
//  FloorZone    – physical zone of the floor the table sits in.
//  PlayersCount – seats currently OCCUPIED.
type PokerTable struct {
	ID           uint64 // tables.id
	Name         string // tables.name
	Game         string // tables.game
	Stakes       string // tables.stakes
	MaxSeats     int    // tables.max_seats
	FloorZone    string // tables.floor_zone
	PlayersCount int    // tables.players_count
}
