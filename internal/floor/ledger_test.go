package floor

import (
	"context"
	"errors"
	"testing"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

func newTestLedger(t *testing.T) (*QueueLedger, *MemStore) {
	t.Helper()
	store := NewMemStore()
	store.AddGameList(1, "NLH 2/5", 9)
	return NewQueueLedger(store, NopPublisher{}, testLogger()), store
}

func TestJoinAssignsSequentialPositions(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		entry, err := ledger.Join(ctx, 1, uint64(100+i))
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if entry.Position != i {
			t.Errorf("join %d: want position %d, got %d", i, i, entry.Position)
		}
		if entry.CheckinStatus != model.CheckinRemote {
			t.Errorf("join %d: want status REMOTE, got %s", i, entry.CheckinStatus)
		}
	}

	lists, err := ledger.Lists(ctx)
	if err != nil {
		t.Fatalf("lists: %v", err)
	}
	if lists[0].WaitCount != 5 {
		t.Errorf("want wait count 5, got %d", lists[0].WaitCount)
	}
}

func TestJoinSamePlayerTwice(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := ledger.Join(ctx, 1, 101); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := ledger.Join(ctx, 1, 101); !errors.Is(err, ErrAlreadyInQueue) {
		t.Errorf("want ErrAlreadyInQueue, got %v", err)
	}
	// The failed join must not disturb the queue.
	q, err := ledger.Queue(ctx, 1)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(q) != 1 || q[0].Position != 1 {
		t.Errorf("queue disturbed by rejected join: %+v", q)
	}
}

func TestJoinClosedList(t *testing.T) {
	ledger, store := newTestLedger(t)
	store.CloseGameList(1)
	if _, err := ledger.Join(context.Background(), 1, 101); !errors.Is(err, ErrValidation) {
		t.Errorf("want ErrValidation for closed list, got %v", err)
	}
}

func TestLeaveRenumbersBehind(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	var ids []uint64
	for i := 1; i <= 4; i++ {
		entry, err := ledger.Join(ctx, 1, uint64(100+i))
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		ids = append(ids, entry.ID)
	}

	// Second in line leaves; 3 and 4 move up, 1 stays put.
	if err := ledger.Leave(ctx, ids[1], 102, false); err != nil {
		t.Fatalf("leave: %v", err)
	}
	q, err := ledger.Queue(ctx, 1)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(q) != 3 {
		t.Fatalf("want 3 entries, got %d", len(q))
	}
	for i, entry := range q {
		if entry.Position != i+1 {
			t.Errorf("entry %d: want position %d, got %d", entry.ID, i+1, entry.Position)
		}
	}
	if q[0].UserID != 101 || q[1].UserID != 103 || q[2].UserID != 104 {
		t.Errorf("unexpected order after leave: %+v", q)
	}
}

func TestLeaveTwiceFailsCleanly(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	first, err := ledger.Join(ctx, 1, 101)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	second, err := ledger.Join(ctx, 1, 102)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := ledger.Leave(ctx, first.ID, 101, false); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := ledger.Leave(ctx, first.ID, 101, false); !errors.Is(err, ErrQueueEntryNotFound) {
		t.Errorf("second leave: want ErrQueueEntryNotFound, got %v", err)
	}
	// The double leave must not decrement anyone again.
	got, err := ledger.Queue(ctx, 1)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(got) != 1 || got[0].ID != second.ID || got[0].Position != 1 {
		t.Errorf("queue corrupted by double leave: %+v", got)
	}
}

func TestCheckInKeepsPosition(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := ledger.Join(ctx, 1, 101); err != nil {
		t.Fatalf("join: %v", err)
	}
	entry, err := ledger.Join(ctx, 1, 102)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	got, err := ledger.CheckIn(ctx, entry.ID, 102, false)
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if got.CheckinStatus != model.CheckinOnSite {
		t.Errorf("want ON_SITE, got %s", got.CheckinStatus)
	}
	if got.Position != 2 {
		t.Errorf("check-in moved the position: got %d", got.Position)
	}
	if got.CheckedInAt == nil {
		t.Error("CheckedInAt not recorded")
	}

	// Checking in again is harmless.
	again, err := ledger.CheckIn(ctx, entry.ID, 102, false)
	if err != nil {
		t.Fatalf("second checkin: %v", err)
	}
	if again.CheckinStatus != model.CheckinOnSite || !again.CheckedInAt.Equal(*got.CheckedInAt) {
		t.Errorf("second check-in changed state: %+v", again)
	}
}

func TestLeaveForeignEntryRejected(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	entry, err := ledger.Join(ctx, 1, 101)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := ledger.Leave(ctx, entry.ID, 102, false); !errors.Is(err, ErrEntryNotOwned) {
		t.Errorf("foreign leave: want ErrEntryNotOwned, got %v", err)
	}
	// The rejected leave must not touch the queue.
	q, err := ledger.Queue(ctx, 1)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(q) != 1 || q[0].ID != entry.ID || q[0].Position != 1 {
		t.Errorf("queue disturbed by rejected leave: %+v", q)
	}
}

func TestStaffMayRemoveForeignEntry(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	entry, err := ledger.Join(ctx, 1, 101)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	// A supervisor (user 900) removes a no-show.
	if err := ledger.Leave(ctx, entry.ID, 900, true); err != nil {
		t.Fatalf("staff leave: %v", err)
	}
	q, err := ledger.Queue(ctx, 1)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(q) != 0 {
		t.Errorf("entry not removed: %+v", q)
	}
}

func TestCheckInForeignEntryRejected(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	entry, err := ledger.Join(ctx, 1, 101)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := ledger.CheckIn(ctx, entry.ID, 102, false); !errors.Is(err, ErrEntryNotOwned) {
		t.Errorf("foreign checkin: want ErrEntryNotOwned, got %v", err)
	}
	// Staff confirming an arrival at the podium is allowed.
	got, err := ledger.CheckIn(ctx, entry.ID, 900, true)
	if err != nil {
		t.Fatalf("staff checkin: %v", err)
	}
	if got.CheckinStatus != model.CheckinOnSite {
		t.Errorf("want ON_SITE after staff checkin, got %s", got.CheckinStatus)
	}
}

func TestCheckInUnknownEntry(t *testing.T) {
	ledger, _ := newTestLedger(t)
	if _, err := ledger.CheckIn(context.Background(), 42, 101, false); !errors.Is(err, ErrQueueEntryNotFound) {
		t.Errorf("want ErrQueueEntryNotFound, got %v", err)
	}
}

func TestAuditTrailRecordsFailures(t *testing.T) {
	ledger, store := newTestLedger(t)
	ctx := context.Background()

	if _, err := ledger.Join(ctx, 1, 101); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := ledger.Join(ctx, 1, 101); err == nil {
		t.Fatal("duplicate join unexpectedly succeeded")
	}

	audits := store.Audits()
	if len(audits) != 2 {
		t.Fatalf("want 2 audit records, got %d", len(audits))
	}
	if audits[0].Outcome != "ok" {
		t.Errorf("first join audit: want ok, got %q", audits[0].Outcome)
	}
	if audits[1].Outcome == "ok" {
		t.Error("failed join must not audit as ok")
	}
	if audits[1].Action != "queue.join" || audits[1].ActorID != 101 {
		t.Errorf("unexpected failure audit: %+v", audits[1])
	}
}
