package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordflash/internal/models"
)

// MockRecordRepository is a mock implementation of repository.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Get(ctx context.Context, userID, wordID string) (*models.LearningRecord, error) {
	args := m.Called(ctx, userID, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearningRecord), args.Error(1)
}

func (m *MockRecordRepository) Insert(ctx context.Context, rec models.LearningRecord) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) Upsert(ctx context.Context, rec models.LearningRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepository) DueBefore(ctx context.Context, userID string, before time.Time) ([]models.LearningRecord, error) {
	args := m.Called(ctx, userID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LearningRecord), args.Error(1)
}

func (m *MockRecordRepository) Schedule(ctx context.Context, userID string) ([]models.LearningRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LearningRecord), args.Error(1)
}

func (m *MockRecordRepository) Delete(ctx context.Context, userID, wordID string) error {
	args := m.Called(ctx, userID, wordID)
	return args.Error(0)
}

func (m *MockRecordRepository) CountByMastery(ctx context.Context, userID string) (models.MasteryCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.MasteryCounts), args.Error(1)
}

func (m *MockRecordRepository) Count(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
