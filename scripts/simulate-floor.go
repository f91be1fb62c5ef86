// Command simulate-floor exercises the waitlist engine end to end against
// the in-memory store: players pile onto a list, the floor calls them to
// seats, some sit down in time and some let their hold lapse.  Useful for
// eyeballing position math and hold settlement without MySQL or a broker.
//
// Usage:
//
//	go run scripts/simulate-floor.go --players 80 --tables 6 --claim-rate 0.7
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Yediy/daniacasino-sub001/internal/floor"
	"github.com/Yediy/daniacasino-sub001/internal/model"
)

var (
	numPlayers = flag.Int("players", 50, "number of players joining the list")
	numTables  = flag.Int("tables", 4, "number of tables on the floor")
	seatsPer   = flag.Int("seats", 9, "seats per table")
	holdTTL    = flag.Duration("ttl", 2*time.Second, "hold TTL (short so expiries show up)")
	claimRate  = flag.Float64("claim-rate", 0.7, "probability a called player claims before expiry")
	leaveRate  = flag.Float64("leave-rate", 0.1, "probability a waiting player walks away each round")
)

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	log := logger.Sugar()
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	store := floor.NewMemStore()
	store.AddGameList(1, "NLH 2/5", *numPlayers)
	for t := 1; t <= *numTables; t++ {
		store.AddTable(uint64(t), fmt.Sprintf("Table %d", t), "NLH", "2/5", "main", *seatsPer)
	}

	feed := floor.NopPublisher{}
	ledger := floor.NewQueueLedger(store, feed, log)
	holds := floor.NewSeatHoldManager(store, floor.NopNotifier{}, feed, log, *holdTTL)
	claims := floor.NewSeatClaimCoordinator(store, holds, feed, log)
	balancer := floor.NewTableBalancer(store, log)

	// Everyone joins.
	entries := make([]uint64, 0, *numPlayers)
	for i := 1; i <= *numPlayers; i++ {
		e, err := ledger.Join(ctx, 1, uint64(1000+i))
		if err != nil {
			log.Warnw("join failed", "user_id", 1000+i, "error", err)
			continue
		}
		entries = append(entries, e.ID)
	}
	fmt.Printf("joined %d players\n", len(entries))

	claimed, expired, left := 0, 0, 0
	round := 0
	for len(entries) > 0 {
		round++
		// Some waiting players walk away.
		kept := entries[:0]
		for _, id := range entries {
			if rand.Float64() < *leaveRate {
				entry, err := store.QueueEntry(ctx, id)
				if err == nil && ledger.Leave(ctx, id, entry.UserID, false) == nil {
					left++
					continue
				}
			}
			kept = append(kept, id)
		}
		entries = kept

		// The floor calls the head of the queue to each open seat.
		q, err := ledger.Queue(ctx, 1)
		if err != nil || len(q) == 0 {
			break
		}
		head := q[0]
		seated := false
		for t := 1; t <= *numTables && !seated; t++ {
			seats, err := store.TableSeats(ctx, uint64(t))
			if err != nil {
				continue
			}
			for _, seat := range seats {
				if seat.Status != model.SeatOpen {
					continue
				}
				hold, err := holds.Reserve(ctx, 1, head.ID, seat.TableID, seat.SeatNo, 0)
				if err != nil {
					log.Warnw("reserve failed", "entry_id", head.ID, "error", err)
					break
				}
				if rand.Float64() < *claimRate {
					if _, err := claims.Claim(ctx, hold.ID, head.UserID); err == nil {
						claimed++
					}
				} else {
					// Let it lapse, then sweep.
					time.Sleep(*holdTTL + 100*time.Millisecond)
					if n, _ := holds.SweepOnce(ctx); n > 0 {
						expired += n
					}
				}
				seated = true
				break
			}
		}
		if !seated {
			break // floor is full
		}
		// Drop settled entries from our tracking slice.
		kept = entries[:0]
		for _, id := range entries {
			if _, err := store.QueueEntry(ctx, id); err == nil {
				kept = append(kept, id)
			}
		}
		entries = kept

		if round%10 == 0 {
			fmt.Printf("round %d: waiting=%d claimed=%d expired=%d left=%d\n",
				round, len(entries), claimed, expired, left)
		}
	}

	fmt.Printf("\nfinal: claimed=%d expired=%d left=%d still-waiting=%d\n", claimed, expired, left, len(entries))

	ids := make([]uint64, 0, *numTables)
	for t := 1; t <= *numTables; t++ {
		ids = append(ids, uint64(t))
	}
	plan, err := balancer.Balance(ctx, ids)
	if err != nil {
		log.Fatalw("balance failed", "error", err)
	}
	fmt.Println("\nbalance plan:")
	for _, rec := range plan {
		fmt.Printf("  %-10s players=%d target=%d delta=%+d %s\n",
			rec.Name, rec.PlayersCount, rec.Target, rec.Delta, rec.Action)
	}
}
