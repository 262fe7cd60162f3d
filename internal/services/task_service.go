package services

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/metrics"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/planner"
	"github.com/vytor/wordflash/internal/repository"
)

const (
	TriggerOnDemand = "on_demand"
	TriggerPrebuild = "prebuild"
)

// TaskService builds and serves the frozen daily tasks
type TaskService interface {
	// GetDailyTask returns the task for date, building it on first request.
	// An empty date means today in the user's zone.
	GetDailyTask(ctx context.Context, userID string, date clock.Day) (*models.DailyTask, error)
	// Prebuild builds today's task ahead of the first request.
	Prebuild(ctx context.Context, userID string) (*models.DailyTask, error)
}

type taskService struct {
	deps   Deps
	builds singleflight.Group
}

// NewTaskService creates a new TaskService
func NewTaskService(d Deps) TaskService {
	return &taskService{deps: d.withDefaults()}
}

func (s *taskService) GetDailyTask(ctx context.Context, userID string, date clock.Day) (*models.DailyTask, error) {
	return s.get(ctx, userID, date, TriggerOnDemand)
}

func (s *taskService) Prebuild(ctx context.Context, userID string) (*models.DailyTask, error) {
	return s.get(ctx, userID, "", TriggerPrebuild)
}

func (s *taskService) get(ctx context.Context, userID string, date clock.Day, trigger string) (*models.DailyTask, error) {
	log := logger.FromContext(ctx)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	loc, err := userLocation(ctx, s.deps.Store, userID)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = clock.DayOf(s.deps.Clock.Now(), loc)
	} else if _, err := clock.ParseDay(string(date)); err != nil {
		return nil, errors.NewValidationError("date", "must be YYYY-MM-DD")
	}

	task, err := s.deps.Store.Tasks().Get(ctx, userID, date)
	if err == nil {
		log.Debug("daily task already built: user_id=%s, date=%s", userID, date)
		return task, nil
	}
	if !stderrors.Is(err, repository.ErrNotFound) {
		log.Error("failed to load daily task: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}

	// Concurrent first requests for the same day share one build, which must
	// outlive the caller that happened to start it.
	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := s.builds.Do(userID+"|"+string(date), func() (interface{}, error) {
		return s.build(buildCtx, userID, date, loc, trigger)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.DailyTask), nil
}

// build snapshots the due set, stores the task unless another writer got
// there first, and returns whatever is stored.
func (s *taskService) build(ctx context.Context, userID string, date clock.Day, loc *time.Location, trigger string) (*models.DailyTask, error) {
	log := logger.FromContext(ctx)

	due, err := s.deps.Store.Records().DueBefore(ctx, userID, date.End(loc))
	if err != nil {
		log.Error("failed to load due set: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}

	task, err := planner.Build(userID, due, date, s.deps.Config.Task, s.deps.Rand())
	if err != nil {
		return nil, err
	}
	task.CreatedAt = s.deps.Clock.Now()

	created, err := s.deps.Store.Tasks().Insert(ctx, task)
	if err != nil {
		log.Error("failed to store daily task: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}
	if created {
		metrics.TasksBuilt.WithLabelValues(trigger).Inc()
		log.Info("daily task built: user_id=%s, date=%s, words=%d, trigger=%s", userID, date, task.WordsCount, trigger)
	}

	stored, err := s.deps.Store.Tasks().Get(ctx, userID, date)
	if err != nil {
		return nil, errors.WithContext(err, userID, "")
	}
	return stored, nil
}
