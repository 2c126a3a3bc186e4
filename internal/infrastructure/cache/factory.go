package cache

import (
	"fmt"

	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RunLockFactory picks the run lock backend from configuration
type RunLockFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(RedisConfig) (shared.RunLock, error)
}

// RunLockFactoryOption is a functional option for configuring the factory
type RunLockFactoryOption func(*RunLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RunLockFactoryOption {
	return func(f *RunLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-process lock. Production disables it.
func WithInMemoryFallback(allow bool) RunLockFactoryOption {
	return func(f *RunLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRunLockFactory creates a new factory
func NewRunLockFactory(cfg config.RedisConfig, opts ...RunLockFactoryOption) *RunLockFactory {
	f := &RunLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect: func(c RedisConfig) (shared.RunLock, error) {
			return NewRedisRunLock(c)
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create returns a Redis lock when redis.enabled is set, otherwise an
// in-memory one
func (f *RunLockFactory) Create() (shared.RunLock, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory bill run lock")
		return NewInMemoryRunLock(), nil
	}

	lock, err := f.connect(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis bill run lock", zap.String("addr", f.redisConfig.Addr()))
		return lock, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for bill run lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory bill run lock. "+
		"Concurrent runs on other instances will not be blocked.",
		zap.Error(err),
	)
	return NewInMemoryRunLock(), nil
}
