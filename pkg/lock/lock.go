// Package lock serializes position-mutating operations per ladder.
//
// Every writer (match resolution, promotion sweep, admin position edits)
// takes the ladder's lock before reading positions, so two resolutions in
// the same ladder can never interleave their read-modify-write cycles.
package lock

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotAcquired = errors.New("lock not acquired")
	ErrNotHeld     = errors.New("lock not held")
)

// Locker acquires a mutual-exclusion lock for a single ladder.
// Unlock is returned as a func so callers can defer it.
type Locker interface {
	Lock(ctx context.Context, ladder string) (unlock func(), err error)
}

// LockLadders acquires locks for several ladders in sorted order.
// Sorted acquisition avoids deadlock between cross-ladder operations
// (ladder jumps, promotions) running concurrently.
func LockLadders(ctx context.Context, l Locker, ladders ...string) (func(), error) {
	names := make([]string, 0, len(ladders))
	seen := make(map[string]bool)
	for _, name := range ladders {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	unlocks := make([]func(), 0, len(names))
	release := func() {
		// Release in reverse acquisition order
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, name := range names {
		unlock, err := l.Lock(ctx, name)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}

	return release, nil
}

// LocalLocker 단일 인스턴스 배포용 래더별 뮤텍스
type LocalLocker struct {
	mu      sync.Mutex
	ladders map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		ladders: make(map[string]*sync.Mutex),
	}
}

func (l *LocalLocker) Lock(ctx context.Context, ladder string) (func(), error) {
	l.mu.Lock()
	m, ok := l.ladders[ladder]
	if !ok {
		m = &sync.Mutex{}
		l.ladders[ladder] = m
	}
	l.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		m.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return m.Unlock, nil
	case <-ctx.Done():
		// The goroutine still gets the mutex eventually; hand it back then.
		go func() {
			<-acquired
			m.Unlock()
		}()
		return nil, ctx.Err()
	}
}

// retryInterval 재시도 간격 (Redis locker 공용)
const retryInterval = 50 * time.Millisecond
