package whatsapp

import (
	"context"
	"time"

	"newsdesk-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "wa:dedupe:"

// RedisDeduper suppresses webhook redeliveries with a short-lived Redis
// claim. It is a fast-path filter only; the durable processed-messages
// ledger still guards against double-apply when Redis restarts mid-window.
type RedisDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDeduper(rdb *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{rdb: rdb, ttl: ttl}
}

func (d *RedisDeduper) FirstDelivery(ctx context.Context, messageID string) (bool, error) {
	return utils.ClaimOnce(ctx, d.rdb, dedupeKeyPrefix+messageID, d.ttl)
}
