package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordflash/internal/models"
)

// MockWrongAnswerRepository is a mock implementation of repository.WrongAnswerRepository
type MockWrongAnswerRepository struct {
	mock.Mock
}

func (m *MockWrongAnswerRepository) Push(ctx context.Context, entry models.WrongAnswerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWrongAnswerRepository) List(ctx context.Context, userID string) ([]models.WrongAnswerEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WrongAnswerEntry), args.Error(1)
}

func (m *MockWrongAnswerRepository) Peek(ctx context.Context, userID string) (*models.WrongAnswerEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WrongAnswerEntry), args.Error(1)
}

func (m *MockWrongAnswerRepository) Get(ctx context.Context, userID, wordID string) (*models.WrongAnswerEntry, error) {
	args := m.Called(ctx, userID, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WrongAnswerEntry), args.Error(1)
}

func (m *MockWrongAnswerRepository) Rotate(ctx context.Context, userID, wordID string) error {
	args := m.Called(ctx, userID, wordID)
	return args.Error(0)
}

func (m *MockWrongAnswerRepository) Increment(ctx context.Context, userID, wordID string) error {
	args := m.Called(ctx, userID, wordID)
	return args.Error(0)
}

func (m *MockWrongAnswerRepository) Resolve(ctx context.Context, userID, wordID string) (bool, error) {
	args := m.Called(ctx, userID, wordID)
	return args.Bool(0), args.Error(1)
}
