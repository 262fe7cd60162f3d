package jobs

import (
	"context"

	"github.com/vytor/wordflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool  *worker.Pool
	tasks worker.TaskPrebuilder
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, tasks worker.TaskPrebuilder) JobQueue {
	return &WorkerQueue{pool: pool, tasks: tasks}
}

func (q *WorkerQueue) EnqueuePrebuild(ctx context.Context, userID string) error {
	return q.pool.Submit(ctx, &worker.PrebuildTaskJob{
		Tasks:  q.tasks,
		UserID: userID,
	})
}
