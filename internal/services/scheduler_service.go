package services

import (
	"context"
	"time"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/lock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/srs"
)

// ReviewScheduler applies graded attempts to learning records
type ReviewScheduler interface {
	// Review grades one word outside a session, under that word's lock.
	Review(ctx context.Context, userID, wordID string, quality srs.Quality) (*models.LearningRecord, error)
	GetReviewSchedule(ctx context.Context, userID string) ([]models.ScheduleEntry, error)
}

type reviewScheduler struct {
	deps Deps
}

// NewReviewScheduler creates a new ReviewScheduler
func NewReviewScheduler(d Deps) ReviewScheduler {
	return &reviewScheduler{deps: d.withDefaults()}
}

func (s *reviewScheduler) Review(ctx context.Context, userID, wordID string, quality srs.Quality) (*models.LearningRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing word: user_id=%s, word_id=%s, quality=%d", userID, wordID, quality)

	if !quality.Valid() {
		return nil, errors.NewValidationError("quality", "must be between 0 and 5")
	}

	release, err := acquire(ctx, s.deps.Locks, lock.WordKey(userID, wordID))
	if err != nil {
		return nil, err
	}
	defer release()

	var updated models.LearningRecord
	err = s.deps.Store.InTx(ctx, func(tx repository.Store) error {
		var err error
		updated, err = applyReview(ctx, tx, userID, wordID, quality, s.deps.Clock.Now(), s.deps.Config.SRS)
		return err
	})
	if err != nil {
		return nil, wrap(err, userID, wordID)
	}
	return &updated, nil
}

func (s *reviewScheduler) GetReviewSchedule(ctx context.Context, userID string) ([]models.ScheduleEntry, error) {
	log := logger.FromContext(ctx)
	if err := requireKnownUser(ctx, s.deps.Store, userID); err != nil {
		return nil, err
	}

	records, err := s.deps.Store.Records().Schedule(ctx, userID)
	if err != nil {
		log.Error("failed to load schedule: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}

	entries := make([]models.ScheduleEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, models.ScheduleEntryOf(r))
	}
	return entries, nil
}

// applyReview reads, updates and writes one record through store. The caller
// holds the word lock.
func applyReview(ctx context.Context, store repository.Store, userID, wordID string, q srs.Quality, now time.Time, p srs.Params) (models.LearningRecord, error) {
	log := logger.FromContext(ctx)

	rec, err := store.Records().Get(ctx, userID, wordID)
	if err != nil {
		return models.LearningRecord{}, err
	}
	updated := srs.Apply(*rec, q, now, p)
	if err := updated.Validate(); err != nil {
		return models.LearningRecord{}, errors.NewInternalError(err)
	}
	if err := store.Records().Upsert(ctx, updated); err != nil {
		return models.LearningRecord{}, err
	}

	log.Debug("applied review: word_id=%s, interval=%d days, ease_factor=%.2f, mastery=%s",
		wordID, updated.IntervalDays, updated.EaseFactor, updated.MasteryLevel)
	return updated, nil
}
