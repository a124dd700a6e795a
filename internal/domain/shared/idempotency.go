package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a claimed submission key blocks replays
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore claims submission keys so a retried request is not
// dispatched twice
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl. It returns false when the key is
	// already held.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Release drops a claim so the key can be used again
	Release(ctx context.Context, key string) error
	Close() error
}
