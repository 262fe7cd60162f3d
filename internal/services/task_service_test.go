package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/testutil"
	"github.com/vytor/wordflash/internal/testutil/mocks"
)

func newTaskService(store *mocks.MockStore, now time.Time) services.TaskService {
	return services.NewTaskService(services.Deps{
		Store:  store,
		Clock:  clock.NewFixed(now),
		Config: services.DefaultEngineConfig(),
		Rand:   services.Seeded(1),
	})
}

func TestTaskService_ReturnsStoredTaskWithoutRebuilding(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore()
	// 23:30 UTC is already the next day in Tokyo.
	now := time.Date(2024, 1, 10, 23, 30, 0, 0, time.UTC)
	day := clock.MustDay("2024-01-11")
	stored := &models.DailyTask{UserID: "u1", Date: day, WordIDs: []string{"cat"}}

	store.UserRepo.On("Get", ctx, "u1").Return(&models.User{ID: "u1", Timezone: "Asia/Tokyo"}, nil)
	store.TaskRepo.On("Get", ctx, "u1", day).Return(stored, nil)

	task, err := newTaskService(store, now).GetDailyTask(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, stored, task)
	store.RecordRepo.AssertNotCalled(t, "DueBefore", mock.Anything, mock.Anything, mock.Anything)
	store.TaskRepo.AssertExpectations(t)
}

func TestTaskService_BuildsFromDueSetAndRereads(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore()
	day := clock.MustDay("2024-01-10")
	due := []models.LearningRecord{
		{UserID: "u1", WordID: "dog", NextReviewDate: testutil.Epoch},
		{UserID: "u1", WordID: "cat", NextReviewDate: testutil.Epoch},
	}

	store.UserRepo.On("Get", ctx, "u1").Return(&models.User{ID: "u1", Timezone: "UTC"}, nil)
	store.TaskRepo.On("Get", ctx, "u1", day).Return(nil, repository.ErrNotFound).Once()
	store.RecordRepo.On("DueBefore", mock.Anything, "u1", day.End(time.UTC)).Return(due, nil)
	store.TaskRepo.On("Insert", mock.Anything, mock.MatchedBy(func(task models.DailyTask) bool {
		return assert.ObjectsAreEqual([]string{"cat", "dog"}, task.WordIDs) && task.CreatedAt.Equal(testutil.Epoch)
	})).Return(false, nil)
	// Another writer won the race; its task is what callers see.
	winner := &models.DailyTask{UserID: "u1", Date: day, WordIDs: []string{"dog"}}
	store.TaskRepo.On("Get", mock.Anything, "u1", day).Return(winner, nil).Once()

	task, err := newTaskService(store, testutil.Epoch).Prebuild(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, winner, task)
	store.TaskRepo.AssertExpectations(t)
	store.RecordRepo.AssertExpectations(t)
}

func TestTaskService_BuildSurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := mocks.NewMockStore()
	day := clock.MustDay("2024-01-10")
	live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })

	store.UserRepo.On("Get", ctx, "u1").Return(&models.User{ID: "u1", Timezone: "UTC"}, nil)
	// The caller goes away after the stored-task lookup misses.
	store.TaskRepo.On("Get", ctx, "u1", day).Return(nil, repository.ErrNotFound).Once().Run(func(mock.Arguments) { cancel() })
	store.RecordRepo.On("DueBefore", live, "u1", day.End(time.UTC)).Return([]models.LearningRecord{
		{UserID: "u1", WordID: "cat", NextReviewDate: testutil.Epoch},
	}, nil)
	store.TaskRepo.On("Insert", live, mock.Anything).Return(true, nil)
	built := &models.DailyTask{UserID: "u1", Date: day, WordIDs: []string{"cat"}}
	store.TaskRepo.On("Get", live, "u1", day).Return(built, nil).Once()

	task, err := newTaskService(store, testutil.Epoch).GetDailyTask(ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, built, task)
	store.RecordRepo.AssertExpectations(t)
	store.TaskRepo.AssertExpectations(t)
}

func TestTaskService_StoreErrorsCarryIdentifiers(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore()
	day := clock.MustDay("2024-01-10")

	store.UserRepo.On("Get", ctx, "u1").Return(&models.User{ID: "u1", Timezone: "UTC"}, nil)
	store.TaskRepo.On("Get", ctx, "u1", day).Return(nil, stderrors.New("disk I/O error"))

	_, err := newTaskService(store, testutil.Epoch).GetDailyTask(ctx, "u1", day)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInternal, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "user=u1")
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestTaskService_UnknownUser(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore()
	store.UserRepo.On("Get", ctx, "ghost").Return(nil, repository.ErrNotFound)

	_, err := newTaskService(store, testutil.Epoch).GetDailyTask(ctx, "ghost", "")
	assert.True(t, errors.IsNotFound(err))

	_, err = newTaskService(store, testutil.Epoch).GetDailyTask(ctx, "", "")
	assert.Equal(t, errors.ErrCodeValidation, errors.CodeOf(err))
}

func TestEngineConfigValidate(t *testing.T) {
	cfg := services.DefaultEngineConfig()
	require.NoError(t, cfg.Validate())

	cfg.DefaultTimezone = "Nowhere/Land"
	assert.Equal(t, errors.ErrCodeConfiguration, errors.CodeOf(cfg.Validate()))

	cfg = services.DefaultEngineConfig()
	cfg.SRS.MinEase = 0
	assert.Equal(t, errors.ErrCodeConfiguration, errors.CodeOf(cfg.Validate()))
}
