// Package lock provides keyed mutual exclusion with a bounded wait.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrTimeout is returned when a key could not be acquired in time.
var ErrTimeout = errors.New("lock: timed out waiting for key")

type entry struct {
	ch   chan struct{}
	refs int
}

// Keyed serializes work per string key. Entries are dropped once no holder
// or waiter references them.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
}

// New returns a Keyed whose Acquire waits at most timeout per call.
// A zero timeout waits until ctx is done.
func New(timeout time.Duration) *Keyed {
	return &Keyed{entries: make(map[string]*entry), timeout: timeout}
}

// Acquire locks every key in sorted order, so callers that share keys cannot
// deadlock. The returned release must be called exactly once.
func (k *Keyed) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalize(keys)

	if k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	held := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := k.lock(ctx, key); err != nil {
			k.unlockAll(held)
			return nil, fmt.Errorf("%w: %s", err, key)
		}
		held = append(held, key)
	}

	var once sync.Once
	return func() { once.Do(func() { k.unlockAll(held) }) }, nil
}

func (k *Keyed) lock(ctx context.Context, key string) error {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.deref(key, e)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

func (k *Keyed) unlockAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		k.mu.Lock()
		e := k.entries[keys[i]]
		k.mu.Unlock()
		<-e.ch
		k.deref(keys[i], e)
	}
}

func (k *Keyed) deref(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}

// Len is the number of keys currently held or waited on.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func normalize(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)
	n := 0
	for i, key := range out {
		if i > 0 && key == out[n-1] {
			continue
		}
		out[n] = key
		n++
	}
	return out[:n]
}

// WordKey is the lock key of one user's word record.
func WordKey(userID, wordID string) string {
	return "word:" + userID + ":" + wordID
}

// QueueKey is the lock key of one user's wrong-answer queue.
func QueueKey(userID string) string {
	return "queue:" + userID
}

// ProgressKey is the lock key of one user's progress counters.
func ProgressKey(userID string) string {
	return "progress:" + userID
}

// SessionKey is the lock key of one practice session.
func SessionKey(sessionID string) string {
	return "session:" + sessionID
}
