package model

import "time"

// AuditRecord captures one mutating operation against the floor state for
// forensic review.  Records are written for failures as well as successes
// and are append-only; a failed audit write is logged and never fails the
// operation it describes.
type AuditRecord struct {
	ID       string    // audit_records.id (uuid)
	ActorID  uint64    // audit_records.actor_id (0 for the background sweeper)
	Action   string    // audit_records.action (e.g. "queue.join", "hold.claim")
	Entity   string    // audit_records.entity (e.g. "queue_entry", "seat_hold")
	EntityID uint64    // audit_records.entity_id
	Before   string    // audit_records.before (state summary prior to the mutation)
	After    string    // audit_records.after (state summary after, or "-" on failure)
	Outcome  string    // audit_records.outcome ("ok" or the failure reason)
	At       time.Time // audit_records.at
}
