package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, userID string) (models.ProgressState, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.ProgressState), args.Error(1)
}

func (m *MockProgressRepository) Save(ctx context.Context, state models.ProgressState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockProgressRepository) AddDailyAccuracy(ctx context.Context, userID string, day clock.Day, questions, correct int) error {
	args := m.Called(ctx, userID, day, questions, correct)
	return args.Error(0)
}

func (m *MockProgressRepository) DailyAccuracy(ctx context.Context, userID string, from, to clock.Day) ([]models.DailyAccuracy, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyAccuracy), args.Error(1)
}

func (m *MockProgressRepository) Achievements(ctx context.Context, userID string) (map[string]time.Time, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]time.Time), args.Error(1)
}

func (m *MockProgressRepository) Unlock(ctx context.Context, userID, achievementID string, at time.Time) error {
	args := m.Called(ctx, userID, achievementID, at)
	return args.Error(0)
}
