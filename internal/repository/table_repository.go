package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Yediy/daniacasino-sub001/internal/floor"
	"github.com/Yediy/daniacasino-sub001/internal/model"
)

const pokerTableColumns = `id, name, game, stakes, max_seats, floor_zone, players_count`

func scanPokerTable(row interface{ Scan(...any) error }) (*model.PokerTable, error) {
	var t model.PokerTable
	if err := row.Scan(&t.ID, &t.Name, &t.Game, &t.Stakes, &t.MaxSeats, &t.FloorZone, &t.PlayersCount); err != nil {
		return nil, err
	}
	return &t, nil
}

// Tables implements floor.Store.  When ids is nil every table is
// returned; otherwise each requested id must exist.
func (s *Store) Tables(ctx context.Context, ids []uint64) ([]model.PokerTable, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	query := `SELECT ` + pokerTableColumns + ` FROM poker_tables ORDER BY id ASC`
	args := make([]any, 0, len(ids))
	if ids != nil {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		query = `SELECT ` + pokerTableColumns + ` FROM poker_tables WHERE id IN (` + placeholders + `) ORDER BY id ASC`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	found := make(map[uint64]struct{}, len(ids))
	var out []model.PokerTable
	for rows.Next() {
		t, err := scanPokerTable(rows)
		if err != nil {
			return nil, err
		}
		found[t.ID] = struct{}{}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("%w: id %d", floor.ErrTableNotFound, id)
		}
	}
	return out, nil
}

// TableSeats implements floor.Store.
func (s *Store) TableSeats(ctx context.Context, tableID uint64) ([]model.Seat, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM poker_tables WHERE id = ?)`, tableID,
	).Scan(&exists); err != nil {
		return nil, mapErr(err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: id %d", floor.ErrTableNotFound, tableID)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_id, seat_no, status, occupant_id FROM seats WHERE table_id = ? ORDER BY seat_no ASC`, tableID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		var seat model.Seat
		var occupant sql.NullInt64
		if err := rows.Scan(&seat.TableID, &seat.SeatNo, &seat.Status, &occupant); err != nil {
			return nil, err
		}
		if occupant.Valid {
			uid := uint64(occupant.Int64)
			seat.OccupantID = &uid
		}
		out = append(out, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
