package mocks

import (
	"context"

	"github.com/vytor/wordflash/internal/repository"
)

// MockStore hands out the embedded mock repositories. InTx runs fn against the
// same store so expectations hold inside and outside transactions.
type MockStore struct {
	UserRepo        *MockUserRepository
	WordRepo        *MockWordRepository
	RecordRepo      *MockRecordRepository
	WrongAnswerRepo *MockWrongAnswerRepository
	TaskRepo        *MockTaskRepository
	SessionRepo     *MockSessionRepository
	ProgressRepo    *MockProgressRepository
	PingErr         error
}

// NewMockStore creates a MockStore with empty mocks.
func NewMockStore() *MockStore {
	return &MockStore{
		UserRepo:        &MockUserRepository{},
		WordRepo:        &MockWordRepository{},
		RecordRepo:      &MockRecordRepository{},
		WrongAnswerRepo: &MockWrongAnswerRepository{},
		TaskRepo:        &MockTaskRepository{},
		SessionRepo:     &MockSessionRepository{},
		ProgressRepo:    &MockProgressRepository{},
	}
}

func (m *MockStore) Users() repository.UserRepository               { return m.UserRepo }
func (m *MockStore) Words() repository.WordRepository               { return m.WordRepo }
func (m *MockStore) Records() repository.RecordRepository           { return m.RecordRepo }
func (m *MockStore) WrongAnswers() repository.WrongAnswerRepository { return m.WrongAnswerRepo }
func (m *MockStore) Tasks() repository.TaskRepository               { return m.TaskRepo }
func (m *MockStore) Sessions() repository.SessionRepository         { return m.SessionRepo }
func (m *MockStore) Progress() repository.ProgressRepository        { return m.ProgressRepo }

func (m *MockStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}
