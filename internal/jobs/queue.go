package jobs

import "context"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueuePrebuild(ctx context.Context, userID string) error
}
