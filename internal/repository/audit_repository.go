package repository

import (
	"context"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

// AppendAudit implements floor.Store.  The audit trail is append-only;
// rows are written for failed operations as well, so a single INSERT
// outside any business transaction is exactly what we want here.
func (s *Store) AppendAudit(ctx context.Context, rec model.AuditRecord) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_records (id, actor_id, action, entity, entity_id, before_state, after_state, outcome, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ActorID, rec.Action, rec.Entity, rec.EntityID, rec.Before, rec.After, rec.Outcome,
		rec.At.UTC().Format("2006-01-02 15:04:05"),
	)
	return mapErr(err)
}
