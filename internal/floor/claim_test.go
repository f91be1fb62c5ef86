package floor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

func TestClaimSeatsThePlayer(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	entry := f.join(t, 101)
	behind := f.join(t, 102)

	hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 4, 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	claimed, err := f.claims.Claim(ctx, hold.ID, 101)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.Status != model.HoldClaimed {
		t.Errorf("want CLAIMED, got %s", claimed.Status)
	}

	seat := f.seat(t, 4)
	if seat.Status != model.SeatOccupied || seat.OccupantID == nil || *seat.OccupantID != 101 {
		t.Errorf("seat not occupied by claimant: %+v", seat)
	}

	// The entry is gone and everyone behind moved up.
	if _, err := f.store.QueueEntry(ctx, entry.ID); !errors.Is(err, ErrQueueEntryNotFound) {
		t.Errorf("claimed entry still in queue: %v", err)
	}
	got, err := f.store.QueueEntry(ctx, behind.ID)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if got.Position != 1 {
		t.Errorf("want position 1 after claim ahead, got %d", got.Position)
	}

	tables, err := f.store.Tables(ctx, []uint64{1})
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if tables[0].PlayersCount != 1 {
		t.Errorf("want players count 1, got %d", tables[0].PlayersCount)
	}
}

func TestClaimByAnotherPlayer(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	entry := f.join(t, 101)

	hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 1, 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := f.claims.Claim(ctx, hold.ID, 999); !errors.Is(err, ErrHoldNotOwned) {
		t.Fatalf("want ErrHoldNotOwned, got %v", err)
	}
	// The hold stays claimable by its owner.
	if _, err := f.claims.Claim(ctx, hold.ID, 101); err != nil {
		t.Errorf("owner claim after foreign attempt: %v", err)
	}
}

func TestClaimJustBeforeExpiry(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	entry := f.join(t, 101)

	hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 1, 5*time.Minute)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	f.advance(4*time.Minute + 59*time.Second)
	if _, err := f.claims.Claim(ctx, hold.ID, 101); err != nil {
		t.Errorf("claim 1s before expiry must succeed: %v", err)
	}
}

func TestClaimJustAfterExpiry(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	entry := f.join(t, 101)

	hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 1, 5*time.Minute)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	f.advance(5*time.Minute + time.Second)
	if _, err := f.claims.Claim(ctx, hold.ID, 101); !errors.Is(err, ErrHoldExpired) {
		t.Fatalf("want ErrHoldExpired, got %v", err)
	}

	// The lazy check settled the hold without waiting for the sweep.
	got, err := f.store.Hold(ctx, hold.ID)
	if err != nil {
		t.Fatalf("hold: %v", err)
	}
	if got.Status != model.HoldExpired {
		t.Errorf("want EXPIRED after lazy settle, got %s", got.Status)
	}
	if s := f.seat(t, 1); s.Status != model.SeatOpen {
		t.Errorf("seat must reopen, got %s", s.Status)
	}
}

func TestClaimUnknownHold(t *testing.T) {
	f := newTestFloor(t)
	if _, err := f.claims.Claim(context.Background(), 42, 101); !errors.Is(err, ErrHoldNotFound) {
		t.Errorf("want ErrHoldNotFound, got %v", err)
	}
}

// Exactly one of many concurrent claims on the same hold may win; the
// rest must observe the settled hold.
func TestConcurrentClaimsSingleWinner(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	entry := f.join(t, 101)

	hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 1, 0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.claims.Claim(ctx, hold.ID, 101)
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrHoldExpired), errors.Is(err, ErrSeatUnavailable):
			// settled by the winner
		default:
			t.Errorf("claim %d: unexpected error %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("want exactly 1 winning claim, got %d", wins)
	}

	seat := f.seat(t, 1)
	if seat.Status != model.SeatOccupied {
		t.Errorf("seat must be occupied, got %s", seat.Status)
	}
	tables, err := f.store.Tables(ctx, []uint64{1})
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if tables[0].PlayersCount != 1 {
		t.Errorf("players count incremented more than once: %d", tables[0].PlayersCount)
	}
}

// A claim and the expiry sweep race on an overdue hold: whichever settles
// it first, the hold ends in exactly one final state and the seat is
// consistent with it.
func TestClaimVersusSweepSettlesOnce(t *testing.T) {
	for round := 0; round < 20; round++ {
		f := newTestFloor(t)
		ctx := context.Background()
		entry := f.join(t, 101)

		hold, err := f.holds.Reserve(ctx, 1, entry.ID, 1, 1, time.Minute)
		if err != nil {
			t.Fatalf("reserve: %v", err)
		}
		// Exactly at the deadline: the claim path still sees the hold as
		// valid while the sweep already considers it due.
		f.advance(time.Minute)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.claims.Claim(ctx, hold.ID, 101)
		}()
		go func() {
			defer wg.Done()
			_, _ = f.holds.SweepOnce(ctx)
		}()
		wg.Wait()

		got, err := f.store.Hold(ctx, hold.ID)
		if err != nil {
			t.Fatalf("hold: %v", err)
		}
		seat := f.seat(t, 1)
		switch got.Status {
		case model.HoldExpired:
			if seat.Status != model.SeatOpen {
				t.Fatalf("round %d: expired hold but seat %s", round, seat.Status)
			}
		case model.HoldClaimed:
			if seat.Status != model.SeatOccupied {
				t.Fatalf("round %d: claimed hold but seat %s", round, seat.Status)
			}
		default:
			t.Fatalf("round %d: hold left unsettled in %s", round, got.Status)
		}
	}
}
