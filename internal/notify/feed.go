package notify

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Yediy/daniacasino-sub001/internal/floor"
)

// FeedChannel is the Redis pub/sub channel carrying committed state
// transitions for the live floor board.
const FeedChannel = "floor.events"

// Feed implements floor.EventPublisher over Redis pub/sub.  A nil client
// turns it into a no-op, so callers don't branch on whether Redis is
// configured.
type Feed struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

func NewFeed(rdb *redis.Client, log *zap.SugaredLogger) *Feed {
	return &Feed{rdb: rdb, log: log}
}

func (f *Feed) Publish(ctx context.Context, ev floor.Event) {
	if f.rdb == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		f.log.Warnw("feed event marshal failed", "kind", ev.Kind, "error", err)
		return
	}
	if err := f.rdb.Publish(ctx, FeedChannel, body).Err(); err != nil {
		f.log.Warnw("feed publish failed", "kind", ev.Kind, "error", err)
	}
}
