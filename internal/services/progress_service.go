package services

import (
	"context"

	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/progress"
)

// ProgressService reports learning progress
type ProgressService interface {
	GetProgressStats(ctx context.Context, userID string) (*models.ProgressStats, error)
}

type progressService struct {
	deps Deps
}

// NewProgressService creates a new ProgressService
func NewProgressService(d Deps) ProgressService {
	return &progressService{deps: d.withDefaults()}
}

func (s *progressService) GetProgressStats(ctx context.Context, userID string) (*models.ProgressStats, error) {
	log := logger.FromContext(ctx)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	loc, err := userLocation(ctx, s.deps.Store, userID)
	if err != nil {
		return nil, err
	}
	today := clock.DayOf(s.deps.Clock.Now(), loc)

	state, err := s.deps.Store.Progress().Get(ctx, userID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}
	// Recounted on every read so the tally never drifts from the records.
	counts, err := s.deps.Store.Records().CountByMastery(ctx, userID)
	if err != nil {
		log.Error("failed to count mastery: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}
	from, to := progress.WeeklyWindow(today)
	days, err := s.deps.Store.Progress().DailyAccuracy(ctx, userID, from, to)
	if err != nil {
		log.Error("failed to load daily accuracy: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}
	unlocked, err := s.deps.Store.Progress().Achievements(ctx, userID)
	if err != nil {
		return nil, errors.WithContext(err, userID, "")
	}

	stats := progress.Snapshot(state, counts, days, today)
	stats.Achievements = progress.Achievements(stats, unlocked)
	log.Debug("progress stats: user_id=%s, words=%d, streak=%d", userID, stats.TotalWords, stats.CurrentStreak)
	return &stats, nil
}
