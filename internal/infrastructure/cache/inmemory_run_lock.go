package cache

import (
	"context"
	"sync"
	"time"

	"github.com/propmgmt/backend/internal/domain/shared"
)

// InMemoryRunLock implements shared.RunLock with an in-process map.
// It only guards runs inside a single API instance.
type InMemoryRunLock struct {
	mu        sync.Mutex
	held      map[string]time.Time // key -> expiry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRunLock creates an in-memory lock and starts its expiry sweeper
func NewInMemoryRunLock() *InMemoryRunLock {
	l := &InMemoryRunLock{
		held:     make(map[string]time.Time),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Acquire takes the lock unless an unexpired holder exists
func (l *InMemoryRunLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiresAt, ok := l.held[key]; ok && l.now().Before(expiresAt) {
		return false, nil
	}
	l.held[key] = l.now().Add(ttl)
	return true, nil
}

// Release drops the lock for key
func (l *InMemoryRunLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, key)
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (l *InMemoryRunLock) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

func (l *InMemoryRunLock) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *InMemoryRunLock) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, expiresAt := range l.held {
		if !now.Before(expiresAt) {
			delete(l.held, key)
		}
	}
}

// Size returns the number of held keys, expired ones included until swept
func (l *InMemoryRunLock) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

// Ensure InMemoryRunLock implements shared.RunLock
var _ shared.RunLock = (*InMemoryRunLock)(nil)
