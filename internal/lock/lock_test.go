package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/lock"
)

func TestAcquire_SerializesSameKey(t *testing.T) {
	k := lock.New(time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := k.Acquire(ctx, "a")
			require.NoError(t, err)
			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()

			counter++

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, k.Len(), "entries are dropped when unused")
}

func TestAcquire_DifferentKeysDoNotBlock(t *testing.T) {
	k := lock.New(50 * time.Millisecond)
	ctx := context.Background()

	releaseA, err := k.Acquire(ctx, "a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := k.Acquire(ctx, "b")
	require.NoError(t, err)
	releaseB()
}

func TestAcquire_TimesOut(t *testing.T) {
	k := lock.New(20 * time.Millisecond)
	ctx := context.Background()

	release, err := k.Acquire(ctx, "a")
	require.NoError(t, err)

	_, err = k.Acquire(ctx, "b", "a")
	require.ErrorIs(t, err, lock.ErrTimeout)

	// b must have been released by the failed call
	releaseB, err := k.Acquire(ctx, "b")
	require.NoError(t, err)
	releaseB()

	release()
	assert.Equal(t, 0, k.Len())
}

func TestAcquire_ContextCanceled(t *testing.T) {
	k := lock.New(0)
	release, err := k.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = k.Acquire(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
}

func TestAcquire_OppositeOrderNoDeadlock(t *testing.T) {
	k := lock.New(time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := k.Acquire(ctx, "x", "y")
			require.NoError(t, err)
			release()
		}()
		go func() {
			defer wg.Done()
			release, err := k.Acquire(ctx, "y", "x", "y")
			require.NoError(t, err)
			release()
		}()
	}
	wg.Wait()
}

func TestReleaseIsIdempotent(t *testing.T) {
	k := lock.New(time.Second)
	release, err := k.Acquire(context.Background(), "a")
	require.NoError(t, err)
	release()
	release()

	release, err = k.Acquire(context.Background(), "a")
	require.NoError(t, err)
	release()
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "word:u1:w1", lock.WordKey("u1", "w1"))
	assert.Equal(t, "queue:u1", lock.QueueKey("u1"))
	assert.Equal(t, "progress:u1", lock.ProgressKey("u1"))
	assert.Equal(t, "session:s1", lock.SessionKey("s1"))
}
