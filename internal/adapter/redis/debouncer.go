package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/DianaTao/MindBridge-sub000/internal/domain"
)

// Debouncer collapses fusion triggers for one session arriving within the
// configured interval, via SET NX with expiry. Opt-in: the pipeline default
// keeps every trigger (at-least-once).
type Debouncer struct {
	rdb      *goredis.Client
	interval time.Duration
}

var _ domain.TriggerDebouncer = (*Debouncer)(nil)

func NewDebouncer(rdb *goredis.Client, interval time.Duration) *Debouncer {
	return &Debouncer{rdb: rdb, interval: interval}
}

func (d *Debouncer) Allow(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	set, err := d.rdb.SetNX(ctx, debounceKey(sessionID), "1", d.interval).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check trigger debounce: %w", err)
	}
	return set, nil
}

func debounceKey(sessionID uuid.UUID) string {
	return "fusion:debounce:" + sessionID.String()
}
