package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "499-under")
	require.NoError(t, err)

	// Second acquisition of the same ladder must block until released
	acquired := make(chan struct{})
	go func() {
		unlock2, err := locker.Lock(ctx, "499-under")
		require.NoError(t, err)
		close(acquired)
		unlock2()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestLocalLocker_IndependentLadders(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	unlock1, err := locker.Lock(ctx, "499-under")
	require.NoError(t, err)
	defer unlock1()

	// A different ladder must not be blocked
	done := make(chan struct{})
	go func() {
		unlock2, err := locker.Lock(ctx, "500-549")
		assert.NoError(t, err)
		unlock2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different ladder blocked")
	}
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	locker := NewLocalLocker()

	unlock, err := locker.Lock(context.Background(), "499-under")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "499-under")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockLadders_SortedAndDeduplicated(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	// Duplicate names must not self-deadlock
	release, err := LockLadders(ctx, locker, "500-549", "499-under", "500-549")
	require.NoError(t, err)
	release()

	// After release both ladders are free again
	release, err = LockLadders(ctx, locker, "499-under", "500-549")
	require.NoError(t, err)
	release()
}

func TestLockLadders_NoInterleaving(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	var mu sync.Mutex
	counter := 0
	var wg sync.WaitGroup

	// Concurrent cross-ladder operations taking locks in opposite argument
	// order; sorted acquisition inside LockLadders prevents deadlock.
	for i := 0; i < 20; i++ {
		wg.Add(1)
		order := []string{"499-under", "500-549"}
		if i%2 == 1 {
			order = []string{"500-549", "499-under"}
		}
		go func(ladders []string) {
			defer wg.Done()
			release, err := LockLadders(ctx, locker, ladders...)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			counter++
			mu.Unlock()
			release()
		}(order)
	}

	wg.Wait()
	assert.Equal(t, 20, counter)
}
