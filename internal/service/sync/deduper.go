package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce tries to acquire a dedup lock for a job id.
// Returns true the first time, false for a redelivered duplicate.
// When redis is unavailable processing proceeds rather than stalls.
func (d *Deduper) AcquireOnce(ctx context.Context, jobID string) bool {
	key := fmt.Sprintf("dedup:sync:%s", jobID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
