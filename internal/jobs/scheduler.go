package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
)

// UserLister lists every registered learner.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// Scheduler prebuilds each user's daily task at a fixed wall-clock time in
// that user's own zone. It ticks hourly at the configured minute and, on each
// tick, enqueues the users whose local hour matches the configured hour.
type Scheduler struct {
	cron   *gocron.Scheduler
	at     string
	hour   int
	minute int
	loc    *time.Location
	users  UserLister
	queue  JobQueue
	log    *logger.Logger
}

// NewScheduler creates a Scheduler for "HH:MM". loc is the zone assumed for
// users whose stored zone cannot be loaded.
func NewScheduler(at string, loc *time.Location, users UserLister, queue JobQueue) (*Scheduler, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("invalid prebuild time %q: %w", at, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   gocron.NewScheduler(time.UTC),
		at:     at,
		hour:   t.Hour(),
		minute: t.Minute(),
		loc:    loc,
		users:  users,
		queue:  queue,
		log:    logger.Default().WithPrefix("scheduler"),
	}, nil
}

// Start registers the hourly tick and runs the scheduler in the background.
// Jobs run with ctx, so cancelling it aborts an in-flight fan-out.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.Cron(fmt.Sprintf("%d * * * *", s.minute)).Do(func() {
		if _, err := s.EnqueueDue(ctx, time.Now()); err != nil {
			s.log.Error("daily prebuild failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule prebuild: %w", err)
	}
	s.cron.StartAsync()
	s.log.Info("daily prebuild scheduled at %s local time per user", s.at)
	return nil
}

// Stop terminates the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// Due reports whether the prebuild hour has come for a user in loc at now.
func (s *Scheduler) Due(now time.Time, loc *time.Location) bool {
	return now.In(loc).Hour() == s.hour
}

// EnqueueDue submits a prebuild job for every user whose local hour at now
// is the prebuild hour and returns how many were queued. It stops at the
// first submit error.
func (s *Scheduler) EnqueueDue(ctx context.Context, now time.Time) (int, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	queued := 0
	for _, u := range users {
		loc, err := clock.LoadLocation(u.Timezone)
		if err != nil {
			s.log.Warn("unknown zone %q for user %s, using %s", u.Timezone, u.ID, s.loc)
			loc = s.loc
		}
		if !s.Due(now, loc) {
			continue
		}
		if err := s.queue.EnqueuePrebuild(ctx, u.ID); err != nil {
			return queued, fmt.Errorf("enqueue prebuild for %s: %w", u.ID, err)
		}
		queued++
	}
	s.log.Info("queued %d prebuild jobs", queued)
	return queued, nil
}
