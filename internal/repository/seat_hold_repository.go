package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Yediy/daniacasino-sub001/internal/floor"
	"github.com/Yediy/daniacasino-sub001/internal/model"
)

const seatHoldColumns = `id, entry_id, user_id, table_id, seat_no, token, status, expires_at, created_at`

func scanSeatHold(row interface{ Scan(...any) error }) (*model.SeatHold, error) {
	var h model.SeatHold
	if err := row.Scan(&h.ID, &h.EntryID, &h.UserID, &h.TableID, &h.SeatNo, &h.Token, &h.Status, &h.ExpiresAt, &h.CreatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

// ReserveSeat implements floor.Store.  The seat flip is a conditional
// UPDATE on status = OPEN; zero rows affected means the seat either does
// not exist or was taken between the operator's view and this call, and
// nothing is mutated.
func (s *Store) ReserveSeat(ctx context.Context, entryID, tableID uint64, seatNo int, token string, expiresAt time.Time) (*model.SeatHold, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var hold *model.SeatHold
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		entry, err := scanQueueEntry(tx.QueryRowContext(ctx,
			`SELECT `+queueEntryColumns+` FROM queue_entries WHERE id = ? FOR UPDATE`, entryID))
		if err == sql.ErrNoRows {
			return floor.ErrQueueEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("lock queue entry: %w", err)
		}
		if !entry.CheckinStatus.CanTransition(model.CheckinCalled) {
			return fmt.Errorf("%w: entry already called", floor.ErrValidation)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE seats SET status = ?, occupant_id = ? WHERE table_id = ? AND seat_no = ? AND status = ?`,
			model.SeatHeld, entry.UserID, tableID, seatNo, model.SeatOpen,
		)
		if err != nil {
			return fmt.Errorf("hold seat: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("hold seat result: %w", err)
		}
		if affected == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS(SELECT 1 FROM seats WHERE table_id = ? AND seat_no = ?)`, tableID, seatNo,
			).Scan(&exists); err != nil {
				return fmt.Errorf("check seat: %w", err)
			}
			if !exists {
				return floor.ErrSeatNotFound
			}
			return floor.ErrSeatUnavailable
		}
		ins, err := tx.ExecContext(ctx,
			`INSERT INTO seat_holds (entry_id, user_id, table_id, seat_no, token, status, expires_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.UserID, tableID, seatNo, token, model.HoldActive, expiresAt.UTC().Format("2006-01-02 15:04:05"),
		)
		if err != nil {
			return fmt.Errorf("insert hold: %w", err)
		}
		holdID, err := ins.LastInsertId()
		if err != nil {
			return fmt.Errorf("hold id: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE queue_entries SET checkin_status = ? WHERE id = ?`, model.CheckinCalled, entry.ID,
		); err != nil {
			return fmt.Errorf("mark entry called: %w", err)
		}
		hold, err = scanSeatHold(tx.QueryRowContext(ctx,
			`SELECT `+seatHoldColumns+` FROM seat_holds WHERE id = ?`, holdID))
		if err != nil {
			return fmt.Errorf("reload hold: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hold, nil
}

// ClaimSeat implements floor.Store.  The hold row is locked FOR UPDATE
// and both transitions are conditional, so exactly one of claim and
// expiry can settle a given hold.
func (s *Store) ClaimSeat(ctx context.Context, holdID uint64) (*model.SeatHold, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var hold *model.SeatHold
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanSeatHold(tx.QueryRowContext(ctx,
			`SELECT `+seatHoldColumns+` FROM seat_holds WHERE id = ? FOR UPDATE`, holdID))
		if err == sql.ErrNoRows {
			return floor.ErrHoldNotFound
		}
		if err != nil {
			return fmt.Errorf("lock hold: %w", err)
		}
		if cur.Status != model.HoldActive {
			return floor.ErrSeatUnavailable
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE seats SET status = ? WHERE table_id = ? AND seat_no = ? AND status = ? AND occupant_id = ?`,
			model.SeatOccupied, cur.TableID, cur.SeatNo, model.SeatHeld, cur.UserID,
		)
		if err != nil {
			return fmt.Errorf("occupy seat: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("occupy seat result: %w", err)
		} else if n == 0 {
			return floor.ErrSeatUnavailable
		}
		res, err = tx.ExecContext(ctx,
			`UPDATE seat_holds SET status = ? WHERE id = ? AND status = ?`,
			model.HoldClaimed, holdID, model.HoldActive,
		)
		if err != nil {
			return fmt.Errorf("settle hold: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("settle hold result: %w", err)
		} else if n == 0 {
			return floor.ErrSeatUnavailable
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE poker_tables SET players_count = players_count + 1 WHERE id = ?`, cur.TableID,
		); err != nil {
			return fmt.Errorf("bump players count: %w", err)
		}
		if _, err := s.removeEntryTx(ctx, tx, cur.EntryID); err != nil && err != floor.ErrQueueEntryNotFound {
			return fmt.Errorf("remove claimed entry: %w", err)
		}
		cur.Status = model.HoldClaimed
		hold = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hold, nil
}

// ReleaseHold implements floor.Store.  Used by the expiry sweep, the lazy
// check inside Claim and operator cancellation.  The queue entry keeps
// its position; only its checkin status reverts.
func (s *Store) ReleaseHold(ctx context.Context, holdID uint64, to model.HoldStatus) (*model.SeatHold, error) {
	if to != model.HoldExpired && to != model.HoldCancelled {
		return nil, fmt.Errorf("%w: release status must be EXPIRED or CANCELLED", floor.ErrValidation)
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var hold *model.SeatHold
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanSeatHold(tx.QueryRowContext(ctx,
			`SELECT `+seatHoldColumns+` FROM seat_holds WHERE id = ? FOR UPDATE`, holdID))
		if err == sql.ErrNoRows {
			return floor.ErrHoldNotFound
		}
		if err != nil {
			return fmt.Errorf("lock hold: %w", err)
		}
		if !cur.Status.CanTransition(to) {
			return floor.ErrSeatUnavailable
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE seat_holds SET status = ? WHERE id = ? AND status = ?`,
			to, holdID, model.HoldActive,
		)
		if err != nil {
			return fmt.Errorf("settle hold: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("settle hold result: %w", err)
		} else if n == 0 {
			return floor.ErrSeatUnavailable
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE seats SET status = ?, occupant_id = NULL
			 WHERE table_id = ? AND seat_no = ? AND status = ? AND occupant_id = ?`,
			model.SeatOpen, cur.TableID, cur.SeatNo, model.SeatHeld, cur.UserID,
		); err != nil {
			return fmt.Errorf("reopen seat: %w", err)
		}
		entry, err := scanQueueEntry(tx.QueryRowContext(ctx,
			`SELECT `+queueEntryColumns+` FROM queue_entries WHERE id = ? FOR UPDATE`, cur.EntryID))
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("lock released entry: %w", err)
		}
		if err == nil && entry.CheckinStatus == model.CheckinCalled {
			if _, err := tx.ExecContext(ctx,
				`UPDATE queue_entries SET checkin_status = ? WHERE id = ?`,
				entry.ReleaseStatus(), entry.ID,
			); err != nil {
				return fmt.Errorf("reopen queue slot: %w", err)
			}
		}
		cur.Status = to
		hold = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hold, nil
}

// Hold implements floor.Store.
func (s *Store) Hold(ctx context.Context, holdID uint64) (*model.SeatHold, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	hold, err := scanSeatHold(s.db.QueryRowContext(ctx,
		`SELECT `+seatHoldColumns+` FROM seat_holds WHERE id = ?`, holdID))
	if err == sql.ErrNoRows {
		return nil, floor.ErrHoldNotFound
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return hold, nil
}

// ExpiredHoldIDs implements floor.Store.
func (s *Store) ExpiredHoldIDs(ctx context.Context, now time.Time) ([]uint64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM seat_holds WHERE status = ? AND expires_at <= ? ORDER BY id ASC`,
		model.HoldActive, now.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
