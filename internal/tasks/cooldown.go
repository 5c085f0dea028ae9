package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const reminderCooldownKey = "reminder:cooldown:%d"

// RedisCooldown keeps per-user reminder cooldowns as expiring Redis keys
type RedisCooldown struct {
	redis *redis.Client
}

// NewRedisCooldown creates a cooldown store on top of a Redis client
func NewRedisCooldown(client *redis.Client) *RedisCooldown {
	return &RedisCooldown{redis: client}
}

// Acquire claims the user's reminder slot for ttl. It returns false while an earlier claim is alive.
func (c *RedisCooldown) Acquire(ctx context.Context, userID int, ttl time.Duration) (bool, error) {
	ok, err := c.redis.SetNX(ctx, fmt.Sprintf(reminderCooldownKey, userID), time.Now().UTC().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set reminder cooldown: %w", err)
	}
	return ok, nil
}
