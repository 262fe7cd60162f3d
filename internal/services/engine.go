package services

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/vytor/wordflash/internal/clock"
	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/lock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/metrics"
	"github.com/vytor/wordflash/internal/planner"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/srs"
)

// EngineConfig carries the tunables every service reads.
type EngineConfig struct {
	Task                  planner.Config
	SRS                   srs.Params
	MultipleChoiceOptions int
	DefaultTimezone       string
}

// DefaultEngineConfig mirrors the configuration defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Task:                  planner.DefaultConfig(),
		SRS:                   srs.DefaultParams(),
		MultipleChoiceOptions: 4,
		DefaultTimezone:       "UTC",
	}
}

// Validate checks the pieces that services cannot work around.
func (c EngineConfig) Validate() error {
	if err := c.Task.Validate(); err != nil {
		return err
	}
	if err := c.SRS.Validate(); err != nil {
		return apperrors.NewConfigurationError(err.Error())
	}
	if _, err := clock.LoadLocation(c.DefaultTimezone); err != nil {
		return apperrors.NewConfigurationError("unknown default timezone " + c.DefaultTimezone)
	}
	return nil
}

// RandSource returns a fresh generator per call; *rand.Rand is not safe for
// concurrent use.
type RandSource func() *rand.Rand

// TimeSeeded is the production RandSource.
func TimeSeeded() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Seeded returns a RandSource that always starts from seed.
func Seeded(seed int64) RandSource {
	return func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
}

// Deps are the collaborators shared by all services.
type Deps struct {
	Store  repository.Store
	Locks  *lock.Keyed
	Clock  clock.Clock
	Config EngineConfig
	Rand   RandSource
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Rand == nil {
		d.Rand = TimeSeeded
	}
	if d.Locks == nil {
		d.Locks = lock.New(2 * time.Second)
	}
	return d
}

// Services bundles every service built over one Deps.
type Services struct {
	Vocabulary   VocabularyService
	Scheduler    ReviewScheduler
	Tasks        TaskService
	Practice     PracticeService
	WrongAnswers WrongAnswerService
	Progress     ProgressService
}

// New wires all services.
func New(d Deps) *Services {
	d = d.withDefaults()
	scheduler := NewReviewScheduler(d)
	tasks := NewTaskService(d)
	return &Services{
		Vocabulary:   NewVocabularyService(d),
		Scheduler:    scheduler,
		Tasks:        tasks,
		Practice:     NewPracticeService(d, tasks),
		WrongAnswers: NewWrongAnswerService(d),
		Progress:     NewProgressService(d),
	}
}

// acquire takes the locks, turning a timeout into a retryable conflict.
func acquire(ctx context.Context, locks *lock.Keyed, keys ...string) (func(), error) {
	release, err := locks.Acquire(ctx, keys...)
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			metrics.LockConflicts.Inc()
			logger.FromContext(ctx).Warn("lock contention on %v: %v", keys, err)
			return nil, apperrors.NewConcurrencyConflictError(keys[0], err)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return release, nil
}

// wrap attaches identifiers to a store error. A missing row becomes
// NOT_FOUND for the word when one is named, otherwise for the user.
func wrap(err error, userID, wordID string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		if wordID != "" {
			return apperrors.NewUnknownWordError(userID, wordID)
		}
		return apperrors.NewNotFoundError("user", userID)
	}
	return apperrors.WithContext(err, userID, wordID)
}

// userLocation loads the user's timezone of record.
func userLocation(ctx context.Context, store repository.Store, userID string) (*time.Location, error) {
	u, err := store.Users().Get(ctx, userID)
	if err != nil {
		return nil, wrap(err, userID, "")
	}
	loc, err := clock.LoadLocation(u.Timezone)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return loc, nil
}

func requireUser(userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("user_id", "is required")
	}
	return nil
}

// requireKnownUser also fails with NOT_FOUND for an unregistered user.
func requireKnownUser(ctx context.Context, store repository.Store, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if _, err := store.Users().Get(ctx, userID); err != nil {
		return wrap(err, userID, "")
	}
	return nil
}
