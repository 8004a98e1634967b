package git

import (
	"context"
	"sync"
	"time"

	gcerrors "gitcore.dev/gitcore/internal/errors"
)

// DefaultLockTimeout bounds how long an operation waits for a repository lock
const DefaultLockTimeout = 10 * time.Second

// LockManager serializes mutating operations per repository path.
// Entries are created on first use and kept for the life of the process.
type LockManager struct {
	timeout time.Duration
	locks   sync.Map // canonical path -> chan struct{}
}

// NewLockManager creates a LockManager that gives up after timeout
func NewLockManager(timeout time.Duration) *LockManager {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &LockManager{timeout: timeout}
}

var defaultLocks = NewLockManager(DefaultLockTimeout)

// DefaultLocks returns the process-wide lock registry
func DefaultLocks() *LockManager {
	return defaultLocks
}

func (m *LockManager) slot(repoPath string) chan struct{} {
	if v, ok := m.locks.Load(repoPath); ok {
		return v.(chan struct{})
	}
	v, _ := m.locks.LoadOrStore(repoPath, make(chan struct{}, 1))
	return v.(chan struct{})
}

// Acquire takes the lock for repoPath. The returned release func is safe to call
// more than once. When the lock is not obtained within the timeout, or ctx ends
// first, Acquire returns the busy failure.
func (m *LockManager) Acquire(ctx context.Context, repoPath string) (func(), error) {
	sem := m.slot(repoPath)

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case sem <- struct{}{}:
	case <-timer.C:
		return nil, gcerrors.NewBusyError()
	case <-ctx.Done():
		return nil, gcerrors.NewBusyError()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-sem })
	}, nil
}

// Len returns the number of repositories that have been locked at least once.
func (m *LockManager) Len() int {
	n := 0
	m.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
