// Package repository implements the floor.Store interface on MySQL.  Each
// mutating method runs as a single transaction; the seat and seat-hold
// transitions are conditional UPDATEs (compare-and-swap on the stored
// status) so a late claim and a concurrent expiry sweep can never both
// apply.  All timestamps are UTC – the connection is opened with loc=UTC
// and comparisons use UTC_TIMESTAMP().
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Yediy/daniacasino-sub001/internal/floor"
)

// Store holds the database handle and the per-call timeout applied to
// every operation.  Deadline exhaustion surfaces as floor.ErrStoreTimeout
// so callers can retry.
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

// NewStore constructs a Store.  A non-positive timeout defaults to 3s.
func NewStore(db *sql.DB, timeout time.Duration) *Store {
	if db == nil {
		panic("nil db passed to NewStore")
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Store{db: db, timeout: timeout}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// opCtx derives the per-call deadline for one store operation.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// mapErr converts driver-level deadline errors into the retryable
// sentinel.  Other errors pass through wrapped by the caller.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return floor.ErrStoreTimeout
	}
	return err
}

// withTx runs fn inside a transaction, rolling back unless fn succeeds
// and the commit goes through.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", mapErr(err))
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return mapErr(err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", mapErr(err))
	}
	committed = true
	return nil
}
