package services

import (
	"context"
	"strings"

	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/lock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/srs"
)

// VocabularyService handles the word lifecycle events
type VocabularyService interface {
	RegisterUser(ctx context.Context, userID, timezone string) (*models.User, error)
	AddWord(ctx context.Context, word models.Word) (*models.LearningRecord, error)
	DeleteWord(ctx context.Context, userID, wordID string) error
}

type vocabularyService struct {
	deps Deps
}

// NewVocabularyService creates a new VocabularyService
func NewVocabularyService(d Deps) VocabularyService {
	return &vocabularyService{deps: d.withDefaults()}
}

func (s *vocabularyService) RegisterUser(ctx context.Context, userID, timezone string) (*models.User, error) {
	log := logger.FromContext(ctx)
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if timezone == "" {
		timezone = s.deps.Config.DefaultTimezone
	}
	if _, err := clock.LoadLocation(timezone); err != nil {
		return nil, errors.NewValidationError("timezone", "unknown zone "+timezone)
	}

	user := models.User{ID: userID, Timezone: timezone, CreatedAt: s.deps.Clock.Now()}
	if err := s.deps.Store.Users().Upsert(ctx, user); err != nil {
		log.Error("failed to register user: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}
	log.Info("user registered: user_id=%s, timezone=%s", userID, timezone)

	stored, err := s.deps.Store.Users().Get(ctx, userID)
	if err != nil {
		return nil, wrap(err, userID, "")
	}
	return stored, nil
}

// AddWord stores the word content and creates its initial learning record.
// Re-adding a word refreshes its content and keeps the schedule.
func (s *vocabularyService) AddWord(ctx context.Context, word models.Word) (*models.LearningRecord, error) {
	log := logger.FromContext(ctx)
	if err := requireUser(word.UserID); err != nil {
		return nil, err
	}
	word.WordID = strings.TrimSpace(word.WordID)
	word.Term = strings.TrimSpace(word.Term)
	if word.WordID == "" {
		return nil, errors.NewValidationError("word_id", "is required")
	}
	if word.Term == "" {
		return nil, errors.NewValidationError("term", "is required")
	}
	log.Debug("adding word: user_id=%s, word_id=%s", word.UserID, word.WordID)

	release, err := acquire(ctx, s.deps.Locks, lock.WordKey(word.UserID, word.WordID))
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.deps.Clock.Now()
	word.CreatedAt = now
	var rec *models.LearningRecord
	err = s.deps.Store.InTx(ctx, func(tx repository.Store) error {
		user := models.User{ID: word.UserID, Timezone: s.deps.Config.DefaultTimezone, CreatedAt: now}
		if err := tx.Users().EnsureExists(ctx, user); err != nil {
			return err
		}
		if err := tx.Words().Upsert(ctx, word); err != nil {
			return err
		}
		created, err := tx.Records().Insert(ctx, srs.NewRecord(word.UserID, word.WordID, now, s.deps.Config.SRS))
		if err != nil {
			return err
		}
		if !created {
			log.Debug("word already scheduled, keeping record: word_id=%s", word.WordID)
		}
		rec, err = tx.Records().Get(ctx, word.UserID, word.WordID)
		return err
	})
	if err != nil {
		log.Error("failed to add word: %v", err)
		return nil, wrap(err, word.UserID, word.WordID)
	}

	log.Info("word added: user_id=%s, word_id=%s", word.UserID, word.WordID)
	return rec, nil
}

// DeleteWord removes the word; its record and queue entry go with it.
func (s *vocabularyService) DeleteWord(ctx context.Context, userID, wordID string) error {
	log := logger.FromContext(ctx)
	if err := requireUser(userID); err != nil {
		return err
	}

	release, err := acquire(ctx, s.deps.Locks, lock.WordKey(userID, wordID), lock.QueueKey(userID))
	if err != nil {
		return err
	}
	defer release()

	if err := s.deps.Store.Words().Delete(ctx, userID, wordID); err != nil {
		err = wrap(err, userID, wordID)
		if !errors.IsNotFound(err) {
			log.Error("failed to delete word: %v", err)
		}
		return err
	}

	log.Info("word deleted: user_id=%s, word_id=%s", userID, wordID)
	return nil
}
