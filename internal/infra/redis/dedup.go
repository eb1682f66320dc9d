package redis

import (
	"context"
	"fmt"
	"time"
)

// UpdateDedup suppresses duplicate webhook deliveries. Telegram re-sends an
// update when the previous delivery was acked too slowly; marking each
// update_id once with SETNX keeps the router from handling it twice.
// Advisory only: a Redis failure lets the update through.
type UpdateDedup struct {
	cli RedisClient
	ttl time.Duration
}

func NewUpdateDedup(cli RedisClient, ttl time.Duration) *UpdateDedup {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &UpdateDedup{cli: cli, ttl: ttl}
}

// Seen marks updateID and reports whether it was already marked.
func (d *UpdateDedup) Seen(ctx context.Context, updateID int) bool {
	if d == nil || d.cli == nil {
		return false
	}
	key := fmt.Sprintf("tg:update:%d", updateID)
	ok, err := d.cli.SetNX(ctx, key, 1, d.ttl)
	if err != nil {
		return false
	}
	return !ok
}
