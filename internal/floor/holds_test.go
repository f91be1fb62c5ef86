package floor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

// testFloor bundles the engine over a fresh MemStore with an adjustable
// clock so expiry boundaries are exact instead of sleep-based.
type testFloor struct {
	store  *MemStore
	ledger *QueueLedger
	holds  *SeatHoldManager
	claims *SeatClaimCoordinator
	now    time.Time
}

func newTestFloor(t *testing.T) *testFloor {
	t.Helper()
	store := NewMemStore()
	store.AddGameList(1, "NLH 2/5", 9)
	store.AddTable(1, "T1", "NLH", "2/5", "main", 9)

	log := testLogger()
	f := &testFloor{
		store:  store,
		ledger: NewQueueLedger(store, NopPublisher{}, log),
		now:    time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
	}
	f.holds = NewSeatHoldManager(store, NopNotifier{}, NopPublisher{}, log, DefaultHoldTTL)
	f.holds.retryBackoff = 0
	f.holds.now = func() time.Time { return f.now }
	f.claims = NewSeatClaimCoordinator(store, f.holds, NopPublisher{}, log)
	f.claims.retryBackoff = 0
	f.claims.now = f.holds.now
	return f
}

func (f *testFloor) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *testFloor) join(t *testing.T, userID uint64) *model.QueueEntry {
	t.Helper()
	entry, err := f.ledger.Join(context.Background(), 1, userID)
	if err != nil {
		t.Fatalf("join user %d: %v", userID, err)
	}
	return entry
}

func (f *testFloor) seat(t *testing.T, seatNo int) model.Seat {
	t.Helper()
	seats, err := f.store.TableSeats(context.Background(), 1)
	if err != nil {
		t.Fatalf("table seats: %v", err)
	}
	for _, s := range seats {
		if s.SeatNo == seatNo {
			return s
		}
	}
	t.Fatalf("seat %d not found", seatNo)
	return model.Seat{}
}

func TestReserveIssuesHoldAndCallsEntry(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	entry := f.join(t, 101)

	hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 3, 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if hold.Status != model.HoldActive || hold.UserID != 101 || hold.SeatNo != 3 {
		t.Errorf("unexpected hold: %+v", hold)
	}
	if want := f.now.Add(DefaultHoldTTL); !hold.ExpiresAt.Equal(want) {
		t.Errorf("want expiry %v, got %v", want, hold.ExpiresAt)
	}
	if hold.Token == "" {
		t.Error("hold token missing")
	}

	got, err := f.store.QueueEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if got.CheckinStatus != model.CheckinCalled {
		t.Errorf("want entry CALLED, got %s", got.CheckinStatus)
	}
	if got.Position != 1 {
		t.Errorf("calling must not move the position, got %d", got.Position)
	}
	if s := f.seat(t, 3); s.Status != model.SeatHeld {
		t.Errorf("want seat HELD, got %s", s.Status)
	}
}

func TestReserveHeldSeatFails(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	first := f.join(t, 101)
	second := f.join(t, 102)

	if _, err := f.holds.Reserve(ctx, 1, first.ID, 1, 3, 0); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if _, err := f.holds.Reserve(ctx, 1, second.ID, 1, 3, 0); !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("want ErrSeatUnavailable, got %v", err)
	}
	// The losing call must leave the second entry untouched.
	got, err := f.store.QueueEntry(ctx, second.ID)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if got.CheckinStatus != model.CheckinRemote || got.Position != 2 {
		t.Errorf("failed reserve mutated the entry: %+v", got)
	}
}

func TestReserveUnknownSeat(t *testing.T) {
	f := newTestFloor(t)
	entry := f.join(t, 101)
	if _, err := f.holds.Reserve(context.Background(), 1, entry.ID, 1, 42, 0); !errors.Is(err, ErrSeatNotFound) {
		t.Errorf("want ErrSeatNotFound, got %v", err)
	}
}

func TestExpireRestoresOriginalPosition(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	f.join(t, 101)
	middle := f.join(t, 102)
	f.join(t, 103)

	hold, err := f.holds.Reserve(ctx, 1, middle.ID, 1, 1, 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	f.advance(DefaultHoldTTL + time.Second)
	released, err := f.holds.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if released != 1 {
		t.Fatalf("want 1 released hold, got %d", released)
	}

	got, err := f.store.Hold(ctx, hold.ID)
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if got.Status != model.HoldExpired {
		t.Errorf("want EXPIRED, got %s", got.Status)
	}
	if s := f.seat(t, 1); s.Status != model.SeatOpen {
		t.Errorf("seat must reopen after expiry, got %s", s.Status)
	}

	entry, err := f.store.QueueEntry(ctx, middle.ID)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if entry.Position != 2 {
		t.Errorf("expiry must restore the original position 2, got %d", entry.Position)
	}
	if entry.CheckinStatus != model.CheckinWaiting {
		t.Errorf("player never checked in, want WAITING, got %s", entry.CheckinStatus)
	}
}

func TestExpireAfterCheckInRestoresOnSite(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	entry := f.join(t, 101)

	if _, err := f.ledger.CheckIn(ctx, entry.ID, 101, false); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if _, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 1, 0); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	f.advance(DefaultHoldTTL + time.Second)
	if _, err := f.holds.SweepOnce(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	got, err := f.store.QueueEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if got.CheckinStatus != model.CheckinOnSite {
		t.Errorf("checked-in player must return ON_SITE, got %s", got.CheckinStatus)
	}
}

func TestExpireBeforeDeadlineIsNoOp(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	entry := f.join(t, 101)

	hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 1, 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	f.advance(DefaultHoldTTL - time.Second)
	if err := f.holds.Expire(ctx, hold.ID); err != nil {
		t.Fatalf("expire: %v", err)
	}
	got, err := f.store.Hold(ctx, hold.ID)
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if got.Status != model.HoldActive {
		t.Errorf("hold expired early: %s", got.Status)
	}
}

func TestCancelReopensSeatKeepsPlace(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	f.join(t, 101)
	entry := f.join(t, 102)

	hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 5, 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := f.holds.Cancel(ctx, 1, hold.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	got, err := f.store.Hold(ctx, hold.ID)
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if got.Status != model.HoldCancelled {
		t.Errorf("want CANCELLED, got %s", got.Status)
	}
	if s := f.seat(t, 5); s.Status != model.SeatOpen {
		t.Errorf("seat must reopen, got %s", s.Status)
	}
	e, err := f.store.QueueEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if e.Position != 2 {
		t.Errorf("cancel must keep the position, got %d", e.Position)
	}

	// A second cancel finds the hold already settled.
	if err := f.holds.Cancel(ctx, 1, hold.ID); !errors.Is(err, ErrSeatUnavailable) {
		t.Errorf("double cancel: want ErrSeatUnavailable, got %v", err)
	}
}

func TestSweepReleasesOnlyOverdueHolds(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	a := f.join(t, 101)
	b := f.join(t, 102)

	if _, err := f.holds.Reserve(ctx, 1, a.ID, 1, 1, time.Minute); err != nil {
		t.Fatalf("reserve a: %v", err)
	}
	if _, err := f.holds.Reserve(ctx, 1, b.ID, 1, 2, time.Hour); err != nil {
		t.Fatalf("reserve b: %v", err)
	}

	f.advance(2 * time.Minute)
	released, err := f.holds.SweepOnce(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if released != 1 {
		t.Errorf("want exactly 1 released, got %d", released)
	}
	if s := f.seat(t, 2); s.Status != model.SeatHeld {
		t.Errorf("unexpired hold swept: seat 2 is %s", s.Status)
	}
}
