package shared

import "context"

// DefaultConflictRetries is the bounded number of attempts the core makes
// before surfacing CONCURRENT_MODIFICATION to the caller.
const DefaultConflictRetries = 3

// RetryOnConflict runs fn up to attempts times, retrying only when fn
// returns a concurrency conflict. Each attempt is expected to re-read the
// aggregate: the losing transition re-checks its guard against fresh state,
// so a transition that is no longer valid fails with INVALID_TRANSITION
// rather than silently overwriting.
func RetryOnConflict(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultConflictRetries
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = fn(ctx)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}
