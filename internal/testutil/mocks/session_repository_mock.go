package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, session models.PracticeSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, userID, sessionID string) (*models.PracticeSession, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PracticeSession), args.Error(1)
}

func (m *MockSessionRepository) FindByQuestion(ctx context.Context, userID, questionID string) (*models.PracticeSession, error) {
	args := m.Called(ctx, userID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PracticeSession), args.Error(1)
}

func (m *MockSessionRepository) RecordAttempt(ctx context.Context, attempt models.Attempt) (bool, error) {
	args := m.Called(ctx, attempt)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) Attempts(ctx context.Context, sessionID string) (map[string]models.Attempt, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.Attempt), args.Error(1)
}

func (m *MockSessionRepository) Complete(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	args := m.Called(ctx, sessionID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) InsertResult(ctx context.Context, result models.PracticeResult, day clock.Day) error {
	args := m.Called(ctx, result, day)
	return args.Error(0)
}

func (m *MockSessionRepository) GetResult(ctx context.Context, userID, sessionID string) (*models.PracticeResult, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PracticeResult), args.Error(1)
}
