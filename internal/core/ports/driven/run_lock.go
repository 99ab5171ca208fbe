package driven

import (
	"context"
	"time"
)

// RunLock serializes runs per municipality. Two scheduler invocations for
// the same municipality must not overlap; different municipalities never
// contend.
type RunLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held elsewhere.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock if held by this instance.
	// Safe to call even if the lock is not held or has expired.
	Release(ctx context.Context, name string) error
}
