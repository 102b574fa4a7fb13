package persistence

import (
	"context"
	"time"
)

const dedupKeyPrefix = "intake:sid:"

// MessageDeduper suppresses duplicate webhook deliveries. SMS providers
// retry webhooks on slow responses, so the same MessageSid can arrive
// more than once.
type MessageDeduper struct {
	redis *Redis
	ttl   time.Duration
}

// NewMessageDeduper builds a deduper over the shared Redis client.
func NewMessageDeduper(redis *Redis, ttl time.Duration) *MessageDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MessageDeduper{redis: redis, ttl: ttl}
}

// Seen marks sid as processed and reports whether it had already been
// seen. The first caller for a given sid gets false.
func (d *MessageDeduper) Seen(ctx context.Context, sid string) (bool, error) {
	if d == nil || d.redis == nil || d.redis.Client == nil || sid == "" {
		return false, nil
	}
	set, err := d.redis.Client.SetNX(ctx, dedupKeyPrefix+sid, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}
