package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// DedupChecker provides idempotency checks for call-status webhooks.
// Key format: webhook:call:<call_id>:<status>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this call has already been processed with status.
func (d *DedupChecker) IsDuplicate(ctx context.Context, callID, status string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(callID, status)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this call status has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, callID, status string) error {
	return d.client.Set(ctx, dedupKey(callID, status), "1", dedupTTL).Err()
}

func dedupKey(callID, status string) string {
	return fmt.Sprintf("webhook:call:%s:%s", callID, status)
}
