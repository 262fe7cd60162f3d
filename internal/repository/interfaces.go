package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/models"
)

// ErrNotFound is returned by single-row reads and by mutations of missing rows.
var ErrNotFound = errors.New("repository: not found")

// UserRepository handles learner data access
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Upsert(ctx context.Context, user models.User) error
	// EnsureExists creates the user with the given zone unless it exists.
	EnsureExists(ctx context.Context, user models.User) error
}

// WordRepository handles vocabulary content
type WordRepository interface {
	Get(ctx context.Context, userID, wordID string) (*models.Word, error)
	List(ctx context.Context, userID string) ([]models.Word, error)
	ListByIDs(ctx context.Context, userID string, wordIDs []string) (map[string]models.Word, error)
	Upsert(ctx context.Context, word models.Word) error
	Delete(ctx context.Context, userID, wordID string) error
}

// RecordRepository is the authoritative store of learning records.
type RecordRepository interface {
	Get(ctx context.Context, userID, wordID string) (*models.LearningRecord, error)
	// Insert creates the record unless one exists and reports whether it did.
	Insert(ctx context.Context, rec models.LearningRecord) (bool, error)
	Upsert(ctx context.Context, rec models.LearningRecord) error
	// DueBefore returns records with next review strictly before the bound,
	// ordered by next review then word id.
	DueBefore(ctx context.Context, userID string, before time.Time) ([]models.LearningRecord, error)
	Schedule(ctx context.Context, userID string) ([]models.LearningRecord, error)
	Delete(ctx context.Context, userID, wordID string) error
	CountByMastery(ctx context.Context, userID string) (models.MasteryCounts, error)
	Count(ctx context.Context, userID string) (int, error)
}

// WrongAnswerRepository keeps the per-user retry queue in presentation order.
type WrongAnswerRepository interface {
	// Push inserts the entry at the back, or for a word already queued bumps
	// its review count and records the latest wrong answer in place.
	Push(ctx context.Context, entry models.WrongAnswerEntry) error
	List(ctx context.Context, userID string) ([]models.WrongAnswerEntry, error)
	Peek(ctx context.Context, userID string) (*models.WrongAnswerEntry, error)
	Get(ctx context.Context, userID, wordID string) (*models.WrongAnswerEntry, error)
	// Rotate moves the entry to the back of the queue.
	Rotate(ctx context.Context, userID, wordID string) error
	Increment(ctx context.Context, userID, wordID string) error
	// Resolve removes the entry and reports whether one existed.
	Resolve(ctx context.Context, userID, wordID string) (bool, error)
}

// TaskRepository stores the frozen daily tasks.
type TaskRepository interface {
	Get(ctx context.Context, userID string, day clock.Day) (*models.DailyTask, error)
	// Insert stores the task unless one exists for that day and reports
	// whether it did.
	Insert(ctx context.Context, task models.DailyTask) (bool, error)
}

// SessionRepository handles practice sessions, their attempts and results.
type SessionRepository interface {
	Insert(ctx context.Context, session models.PracticeSession) error
	Get(ctx context.Context, userID, sessionID string) (*models.PracticeSession, error)
	FindByQuestion(ctx context.Context, userID, questionID string) (*models.PracticeSession, error)
	// RecordAttempt keeps only the first attempt per question.
	RecordAttempt(ctx context.Context, attempt models.Attempt) (bool, error)
	Attempts(ctx context.Context, sessionID string) (map[string]models.Attempt, error)
	// Complete flips an active session to completed; false means it was not active.
	Complete(ctx context.Context, sessionID string, at time.Time) (bool, error)
	InsertResult(ctx context.Context, result models.PracticeResult, day clock.Day) error
	GetResult(ctx context.Context, userID, sessionID string) (*models.PracticeResult, error)
}

// ProgressRepository stores the running counters behind progress stats.
type ProgressRepository interface {
	// Get returns the zero state for a user without sessions.
	Get(ctx context.Context, userID string) (models.ProgressState, error)
	Save(ctx context.Context, state models.ProgressState) error
	AddDailyAccuracy(ctx context.Context, userID string, day clock.Day, questions, correct int) error
	DailyAccuracy(ctx context.Context, userID string, from, to clock.Day) ([]models.DailyAccuracy, error)
	Achievements(ctx context.Context, userID string) (map[string]time.Time, error)
	Unlock(ctx context.Context, userID, achievementID string, at time.Time) error
}

// Store bundles the repositories over one connection or transaction.
type Store interface {
	Users() UserRepository
	Words() WordRepository
	Records() RecordRepository
	WrongAnswers() WrongAnswerRepository
	Tasks() TaskRepository
	Sessions() SessionRepository
	Progress() ProgressRepository

	// InTx runs fn with a Store bound to one transaction, committing when fn
	// returns nil. Nested calls join the outer transaction.
	InTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}
