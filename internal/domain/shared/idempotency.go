package shared

import (
	"context"
	"time"
)

// RunLock guards long-running batch operations so that only one run per key
// is in flight at a time.
type RunLock interface {
	// Acquire takes the lock for key with a TTL.
	// Returns true if the lock was taken, false if another holder owns it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops the lock for key. Releasing an unheld key is a no-op.
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}

// RunLockConfig holds configuration for batch run locking
type RunLockConfig struct {
	// TTL bounds how long a crashed run can block the next one
	TTL time.Duration

	Enabled bool
}

// DefaultRunLockConfig returns the default run lock configuration
func DefaultRunLockConfig() RunLockConfig {
	return RunLockConfig{
		TTL:     30 * time.Minute,
		Enabled: true,
	}
}
