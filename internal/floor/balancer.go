package floor

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Yediy/daniacasino-sub001/internal/model"
)

// BalanceAction classifies a table's recommended move direction.
type BalanceAction string

const (
	ActionMoveOut  BalanceAction = "move_players_out"
	ActionMoveIn   BalanceAction = "move_players_in"
	ActionBalanced BalanceAction = "balanced"
)

// Recommendation is one table's row in a balancing plan.  Deltas across a
// plan always sum to zero.
type Recommendation struct {
	TableID      uint64        `json:"table_id"`
	Name         string        `json:"name"`
	PlayersCount int           `json:"players_count"`
	Target       int           `json:"target"`
	Delta        int           `json:"delta"`
	Action       BalanceAction `json:"action"`
}

// TableBalancer computes advisory target-occupancy plans across selected
// tables of the same stakes tier.  It never moves players itself; the
// plan is executed by hand on the floor.
type TableBalancer struct {
	store Store
	log   *zap.SugaredLogger
}

// NewTableBalancer constructs a TableBalancer.
func NewTableBalancer(store Store, log *zap.SugaredLogger) *TableBalancer {
	if store == nil || log == nil {
		panic("nil dependency passed to NewTableBalancer")
	}
	return &TableBalancer{store: store, log: log}
}

// Balance loads the selected tables and returns a plan.  Duplicate ids
// are collapsed; fewer than two distinct tables fails with
// ErrInsufficientSelection before any state is read.
func (b *TableBalancer) Balance(ctx context.Context, tableIDs []uint64) ([]Recommendation, error) {
	ids := make([]uint64, 0, len(tableIDs))
	seen := make(map[uint64]struct{}, len(tableIDs))
	for _, id := range tableIDs {
		if id == 0 {
			return nil, fmt.Errorf("%w: table id must be positive", ErrValidation)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return nil, ErrInsufficientSelection
	}
	tables, err := b.store.Tables(ctx, ids)
	if err != nil {
		return nil, err
	}
	plan := Plan(tables)
	b.log.Infow("balance plan computed", "tables", len(plan))
	return plan, nil
}

// Plan computes the target occupancy per table: every table gets
// floor(total/count) players, and the remainder goes one extra seat each
// to the tables with the highest current count (ties broken by table id
// ascending) so the busiest tables absorb it without extra moves.  The
// returned rows are ordered by table id ascending.
func Plan(tables []model.PokerTable) []Recommendation {
	n := len(tables)
	if n == 0 {
		return nil
	}
	total := 0
	for _, t := range tables {
		total += t.PlayersCount
	}
	target := total / n
	remainder := total % n

	byLoad := make([]model.PokerTable, n)
	copy(byLoad, tables)
	sort.Slice(byLoad, func(i, j int) bool {
		if byLoad[i].PlayersCount != byLoad[j].PlayersCount {
			return byLoad[i].PlayersCount > byLoad[j].PlayersCount
		}
		return byLoad[i].ID < byLoad[j].ID
	})
	extra := make(map[uint64]struct{}, remainder)
	for i := 0; i < remainder; i++ {
		extra[byLoad[i].ID] = struct{}{}
	}

	out := make([]Recommendation, n)
	copy(byLoad, tables) // reuse the scratch slice, now ordered by id
	sort.Slice(byLoad, func(i, j int) bool { return byLoad[i].ID < byLoad[j].ID })
	for i, t := range byLoad {
		want := target
		if _, ok := extra[t.ID]; ok {
			want++
		}
		delta := want - t.PlayersCount
		action := ActionBalanced
		switch {
		case delta < 0:
			action = ActionMoveOut
		case delta > 0:
			action = ActionMoveIn
		}
		out[i] = Recommendation{
			TableID:      t.ID,
			Name:         t.Name,
			PlayersCount: t.PlayersCount,
			Target:       want,
			Delta:        delta,
			Action:       action,
		}
	}
	return out
}
