package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Yediy/daniacasino-sub001/internal/floor"
	"github.com/Yediy/daniacasino-sub001/internal/model"
)

const queueEntryColumns = `id, list_id, user_id, position, checkin_status, checked_in_at, created_at`

// scanQueueEntry reads one queue_entries row.
func scanQueueEntry(row interface{ Scan(...any) error }) (*model.QueueEntry, error) {
	var e model.QueueEntry
	var checkedIn sql.NullTime
	if err := row.Scan(&e.ID, &e.ListID, &e.UserID, &e.Position, &e.CheckinStatus, &checkedIn, &e.CreatedAt); err != nil {
		return nil, err
	}
	if checkedIn.Valid {
		t := checkedIn.Time
		e.CheckedInAt = &t
	}
	return &e, nil
}

// AppendQueueEntry implements floor.Store.  The game_lists row is locked
// FOR UPDATE so position assignment is serialized per list: the new entry
// always lands at wait_count+1 and the counter moves in the same
// transaction.
func (s *Store) AppendQueueEntry(ctx context.Context, listID, userID uint64) (*model.QueueEntry, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var entry *model.QueueEntry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var status model.ListStatus
		var waitCount int
		err := tx.QueryRowContext(ctx,
			`SELECT status, wait_count FROM game_lists WHERE id = ? FOR UPDATE`, listID,
		).Scan(&status, &waitCount)
		if err == sql.ErrNoRows {
			return floor.ErrListNotFound
		}
		if err != nil {
			return fmt.Errorf("lock game list: %w", err)
		}
		if status != model.ListOpen {
			return fmt.Errorf("%w: game list is closed", floor.ErrValidation)
		}
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM queue_entries WHERE list_id = ? AND user_id = ?)`, listID, userID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check duplicate entry: %w", err)
		}
		if exists {
			return floor.ErrAlreadyInQueue
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO queue_entries (list_id, user_id, position, checkin_status) VALUES (?, ?, ?, ?)`,
			listID, userID, waitCount+1, model.CheckinRemote,
		)
		if err != nil {
			return fmt.Errorf("insert queue entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("entry id: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE game_lists SET wait_count = wait_count + 1 WHERE id = ?`, listID,
		); err != nil {
			return fmt.Errorf("bump wait count: %w", err)
		}
		entry, err = scanQueueEntry(tx.QueryRowContext(ctx,
			`SELECT `+queueEntryColumns+` FROM queue_entries WHERE id = ?`, id))
		if err != nil {
			return fmt.Errorf("reload queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveQueueEntry implements floor.Store.  The delete, the renumbering
// of every later entry and the wait-count decrement commit together so
// positions stay dense and unique under concurrent leaves.
func (s *Store) RemoveQueueEntry(ctx context.Context, entryID uint64) (*model.QueueEntry, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var entry *model.QueueEntry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		entry, err = s.removeEntryTx(ctx, tx, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// removeEntryTx deletes one entry inside an existing transaction and
// keeps the list invariants intact.  Shared with ClaimSeat.
func (s *Store) removeEntryTx(ctx context.Context, tx *sql.Tx, entryID uint64) (*model.QueueEntry, error) {
	entry, err := scanQueueEntry(tx.QueryRowContext(ctx,
		`SELECT `+queueEntryColumns+` FROM queue_entries WHERE id = ? FOR UPDATE`, entryID))
	if err == sql.ErrNoRows {
		return nil, floor.ErrQueueEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock queue entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM queue_entries WHERE id = ?`, entryID); err != nil {
		return nil, fmt.Errorf("delete queue entry: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE queue_entries SET position = position - 1 WHERE list_id = ? AND position > ?`,
		entry.ListID, entry.Position,
	); err != nil {
		return nil, fmt.Errorf("renumber queue: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE game_lists SET wait_count = GREATEST(wait_count - 1, 0) WHERE id = ?`, entry.ListID,
	); err != nil {
		return nil, fmt.Errorf("drop wait count: %w", err)
	}
	return entry, nil
}

// MarkCheckedIn implements floor.Store.  A CALLED entry keeps its status
// (the hold stays live) but records the check-in time so a later expiry
// restores ON_SITE instead of WAITING.
func (s *Store) MarkCheckedIn(ctx context.Context, entryID uint64) (*model.QueueEntry, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var entry *model.QueueEntry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanQueueEntry(tx.QueryRowContext(ctx,
			`SELECT `+queueEntryColumns+` FROM queue_entries WHERE id = ? FOR UPDATE`, entryID))
		if err == sql.ErrNoRows {
			return floor.ErrQueueEntryNotFound
		}
		if err != nil {
			return fmt.Errorf("lock queue entry: %w", err)
		}
		if cur.CheckinStatus == model.CheckinOnSite {
			entry = cur
			return nil
		}
		if !cur.CheckinStatus.CanTransition(model.CheckinOnSite) {
			return fmt.Errorf("%w: cannot check in from %s", floor.ErrValidation, cur.CheckinStatus)
		}
		next := model.CheckinOnSite
		if cur.CheckinStatus == model.CheckinCalled {
			next = model.CheckinCalled
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE queue_entries SET checkin_status = ?, checked_in_at = UTC_TIMESTAMP() WHERE id = ?`,
			next, entryID,
		); err != nil {
			return fmt.Errorf("mark checked in: %w", err)
		}
		entry, err = scanQueueEntry(tx.QueryRowContext(ctx,
			`SELECT `+queueEntryColumns+` FROM queue_entries WHERE id = ?`, entryID))
		if err != nil {
			return fmt.Errorf("reload queue entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// QueueEntry implements floor.Store.
func (s *Store) QueueEntry(ctx context.Context, entryID uint64) (*model.QueueEntry, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	entry, err := scanQueueEntry(s.db.QueryRowContext(ctx,
		`SELECT `+queueEntryColumns+` FROM queue_entries WHERE id = ?`, entryID))
	if err == sql.ErrNoRows {
		return nil, floor.ErrQueueEntryNotFound
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return entry, nil
}

// ListQueue implements floor.Store.
func (s *Store) ListQueue(ctx context.Context, listID uint64) ([]model.QueueEntry, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM game_lists WHERE id = ?)`, listID,
	).Scan(&exists); err != nil {
		return nil, mapErr(err)
	}
	if !exists {
		return nil, floor.ErrListNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+queueEntryColumns+` FROM queue_entries WHERE list_id = ? ORDER BY position ASC`, listID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []model.QueueEntry
	for rows.Next() {
		e, err := scanQueueEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

// GameLists implements floor.Store.
func (s *Store) GameLists(ctx context.Context) ([]model.GameList, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_label, capacity, open_seats, wait_count, status, created_at
		 FROM game_lists ORDER BY id ASC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []model.GameList
	for rows.Next() {
		var l model.GameList
		if err := rows.Scan(&l.ID, &l.GameLabel, &l.Capacity, &l.OpenSeats, &l.WaitCount, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
