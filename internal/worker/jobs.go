package worker

import (
	"context"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
)

// TaskPrebuilder is the slice of the task service the prebuild job needs.
type TaskPrebuilder interface {
	Prebuild(ctx context.Context, userID string) (*models.DailyTask, error)
}

// PrebuildTaskJob builds today's task for one user ahead of their first request.
type PrebuildTaskJob struct {
	Tasks  TaskPrebuilder
	UserID string
}

func (j *PrebuildTaskJob) Name() string { return "prebuild_task" }

func (j *PrebuildTaskJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("user_id", j.UserID)

	task, err := j.Tasks.Prebuild(ctx, j.UserID)
	if err != nil {
		return err
	}
	log.Debug("task ready for %s with %d words", task.Date, task.WordsCount)
	return nil
}
