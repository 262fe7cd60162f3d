package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/lock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

// WrongAnswerService serves the per-user retry queue
type WrongAnswerService interface {
	GetQueue(ctx context.Context, userID string) ([]models.WrongAnswerEntry, error)
	// Next returns the head of the queue and moves it to the back. It returns
	// nil when the queue is empty.
	Next(ctx context.Context, userID string) (*models.WrongAnswerEntry, error)
	// Review resolves the entry on a correct retry and counts a failed one.
	Review(ctx context.Context, userID, wordID string, correct bool) error
}

type wrongAnswerService struct {
	deps Deps
}

// NewWrongAnswerService creates a new WrongAnswerService
func NewWrongAnswerService(d Deps) WrongAnswerService {
	return &wrongAnswerService{deps: d.withDefaults()}
}

func (s *wrongAnswerService) GetQueue(ctx context.Context, userID string) ([]models.WrongAnswerEntry, error) {
	log := logger.FromContext(ctx)
	if err := requireKnownUser(ctx, s.deps.Store, userID); err != nil {
		return nil, err
	}

	entries, err := s.deps.Store.WrongAnswers().List(ctx, userID)
	if err != nil {
		log.Error("failed to list wrong answers: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}
	if entries == nil {
		entries = []models.WrongAnswerEntry{}
	}
	return entries, nil
}

func (s *wrongAnswerService) Next(ctx context.Context, userID string) (*models.WrongAnswerEntry, error) {
	log := logger.FromContext(ctx)
	if err := requireKnownUser(ctx, s.deps.Store, userID); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, s.deps.Locks, lock.QueueKey(userID))
	if err != nil {
		return nil, err
	}
	defer release()

	var head *models.WrongAnswerEntry
	err = s.deps.Store.InTx(ctx, func(tx repository.Store) error {
		entry, err := tx.WrongAnswers().Peek(ctx, userID)
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		head = entry
		return tx.WrongAnswers().Rotate(ctx, userID, entry.WordID)
	})
	if err != nil {
		log.Error("failed to rotate wrong answer queue: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}
	if head == nil {
		log.Debug("wrong answer queue empty: user_id=%s", userID)
	}
	return head, nil
}

func (s *wrongAnswerService) Review(ctx context.Context, userID, wordID string, correct bool) error {
	log := logger.FromContext(ctx)
	if err := requireKnownUser(ctx, s.deps.Store, userID); err != nil {
		return err
	}
	log.Debug("reviewing wrong answer: user_id=%s, word_id=%s, correct=%t", userID, wordID, correct)

	release, err := acquire(ctx, s.deps.Locks, lock.QueueKey(userID))
	if err != nil {
		return err
	}
	defer release()

	if correct {
		removed, err := s.deps.Store.WrongAnswers().Resolve(ctx, userID, wordID)
		if err != nil {
			log.Error("failed to resolve wrong answer: %v", err)
			return errors.WithContext(err, userID, wordID)
		}
		if removed {
			log.Info("wrong answer resolved: user_id=%s, word_id=%s", userID, wordID)
		}
		return nil
	}

	if err := s.deps.Store.WrongAnswers().Increment(ctx, userID, wordID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("wrong answer", wordID)
		}
		log.Error("failed to count wrong answer retry: %v", err)
		return errors.WithContext(err, userID, wordID)
	}
	return nil
}
