package floor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

// appendAudit records one mutating operation, success or failure.  The
// write is best-effort and detached from the caller's cancellation so an
// operation that timed out still leaves a trace.
func appendAudit(ctx context.Context, store Store, log *zap.SugaredLogger, actorID uint64, action, entity string, entityID uint64, before, after string, opErr error) {
	outcome := "ok"
	if opErr != nil {
		outcome = opErr.Error()
		after = "-"
	}
	rec := model.AuditRecord{
		ID:       uuid.NewString(),
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Before:   before,
		After:    after,
		Outcome:  outcome,
		At:       time.Now().UTC(),
	}
	if err := store.AppendAudit(context.WithoutCancel(ctx), rec); err != nil {
		log.Warnw("audit append failed", "action", action, "entity", entity, "entity_id", entityID, "error", err)
	}
}
