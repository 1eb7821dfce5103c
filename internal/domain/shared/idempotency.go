package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already acted on so retried
// requests are not applied twice. Entries expire after their TTL.
type IdempotencyStore interface {
	// MarkProcessed records the key atomically. It returns true when the key
	// was newly recorded and false when it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key is currently recorded.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
