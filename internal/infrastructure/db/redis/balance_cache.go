package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultBalanceTTL = 5 * time.Minute

// BalanceCache keeps the last known credit balance per user.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBalanceCache returns a cache whose entries expire after ttl (five minutes
// when ttl is zero).
func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	if ttl <= 0 {
		ttl = defaultBalanceTTL
	}
	return &BalanceCache{client: client, ttl: ttl}
}

func (c *BalanceCache) Get(ctx context.Context, userID string) (float64, bool, error) {
	v, err := c.client.Get(ctx, balanceKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("balance cache get: %w", err)
	}
	balance, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("balance cache decode %q: %w", v, err)
	}
	return balance, true, nil
}

func (c *BalanceCache) Set(ctx context.Context, userID string, balance float64) error {
	v := strconv.FormatFloat(balance, 'f', -1, 64)
	if err := c.client.Set(ctx, balanceKey(userID), v, c.ttl).Err(); err != nil {
		return fmt.Errorf("balance cache set: %w", err)
	}
	return nil
}

func balanceKey(userID string) string {
	return "credits:balance:" + userID
}
