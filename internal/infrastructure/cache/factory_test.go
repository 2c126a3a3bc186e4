package cache

import (
	"errors"
	"testing"

	"github.com/propmgmt/backend/internal/domain/shared"
	"github.com/propmgmt/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func unreachable(RedisConfig) (shared.RunLock, error) {
	return nil, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
}

func TestRunLockFactory_Create(t *testing.T) {
	t.Run("redis disabled uses in-memory", func(t *testing.T) {
		lock, err := NewRunLockFactory(config.RedisConfig{Enabled: false}).Create()
		require.NoError(t, err)
		defer lock.Close()
		assert.IsType(t, &InMemoryRunLock{}, lock)
	})

	t.Run("falls back with a warning", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		f := NewRunLockFactory(config.RedisConfig{Enabled: true, Host: "localhost", Port: 6379}, WithLogger(zap.New(core)))
		f.connect = unreachable

		lock, err := f.Create()
		require.NoError(t, err)
		defer lock.Close()
		assert.IsType(t, &InMemoryRunLock{}, lock)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("fallback disabled fails", func(t *testing.T) {
		f := NewRunLockFactory(config.RedisConfig{Enabled: true, Host: "localhost", Port: 6379}, WithInMemoryFallback(false))
		f.connect = unreachable

		_, err := f.Create()
		assert.ErrorContains(t, err, "redis required")
	})

	t.Run("redis config is passed through", func(t *testing.T) {
		var got RedisConfig
		f := NewRunLockFactory(config.RedisConfig{Enabled: true, Host: "cache", Port: 6380, Password: "s3cret", DB: 2})
		f.connect = func(c RedisConfig) (shared.RunLock, error) {
			got = c
			return NewInMemoryRunLock(), nil
		}

		lock, err := f.Create()
		require.NoError(t, err)
		defer lock.Close()
		assert.Equal(t, RedisConfig{Addr: "cache:6380", Password: "s3cret", DB: 2}, got)
	})
}

func TestNewRedisRunLock_Unreachable(t *testing.T) {
	_, err := NewRedisRunLock(RedisConfig{Addr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
