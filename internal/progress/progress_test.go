package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/progress"
)

func result(total, correct int) models.PracticeResult {
	return models.PracticeResult{TotalQuestions: total, CorrectAnswers: correct}
}

func TestApply_StreakWithGap(t *testing.T) {
	var st models.ProgressState
	day1 := clock.MustDay("2024-03-01")

	st = progress.Apply(st, result(4, 3), day1)
	assert.Equal(t, 1, st.CurrentStreak)
	st = progress.Apply(st, result(4, 4), day1.AddDays(1))
	assert.Equal(t, 2, st.CurrentStreak)
	st = progress.Apply(st, result(4, 2), day1.AddDays(2))
	assert.Equal(t, 3, st.CurrentStreak)
	assert.Equal(t, 3, st.LongestStreak)

	st = progress.Apply(st, result(2, 1), day1.AddDays(5))
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 3, st.LongestStreak)
	assert.Equal(t, 4, st.StudyDays)
	assert.Equal(t, 4, st.TotalSessions)
	assert.Equal(t, 14, st.TotalQuestions)
	assert.Equal(t, 10, st.TotalCorrect)
	assert.Equal(t, 14, st.TotalReviews)
	assert.Equal(t, 1, st.PerfectSessions)
	require.NotNil(t, st.LastPracticeDate)
	assert.Equal(t, day1.AddDays(5), *st.LastPracticeDate)
}

func TestApply_SameDayRepeat(t *testing.T) {
	day := clock.MustDay("2024-03-01")
	st := progress.Apply(models.ProgressState{}, result(2, 2), day)
	st = progress.Apply(st, result(2, 0), day)

	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.StudyDays)
	assert.Equal(t, 2, st.TotalSessions)
	assert.Equal(t, 1, st.PerfectSessions)
}

func TestApply_EmptySessionIsNotPerfect(t *testing.T) {
	st := progress.Apply(models.ProgressState{}, result(0, 0), clock.MustDay("2024-03-01"))
	assert.Equal(t, 0, st.PerfectSessions)
	assert.Equal(t, 1, st.TotalSessions)
}

func TestEffectiveStreak(t *testing.T) {
	last := clock.MustDay("2024-03-10")
	st := models.ProgressState{CurrentStreak: 5, LastPracticeDate: &last}

	assert.Equal(t, 5, progress.EffectiveStreak(st, last))
	assert.Equal(t, 5, progress.EffectiveStreak(st, last.AddDays(1)))
	assert.Equal(t, 0, progress.EffectiveStreak(st, last.AddDays(2)))
	assert.Equal(t, 0, progress.EffectiveStreak(models.ProgressState{}, last))
}

func TestWeeklyAccuracy_WeightedByQuestions(t *testing.T) {
	today := clock.MustDay("2024-03-10")
	days := []models.DailyAccuracy{
		{Date: today, Questions: 10, Correct: 9},
		{Date: today, Questions: 2, Correct: 0},
		{Date: today.AddDays(-3), Questions: 4, Correct: 2},
		{Date: today.AddDays(-7), Questions: 4, Correct: 4},
	}

	week := progress.WeeklyAccuracy(days, today)
	require.Len(t, week, 7)
	assert.Equal(t, today.AddDays(-6), week[0].Date)
	assert.Equal(t, today, week[6].Date)
	assert.Equal(t, 12, week[6].Questions)
	assert.InDelta(t, 0.75, week[6].Accuracy, 1e-9, "9/12, not the mean of 0.9 and 0")
	assert.InDelta(t, 0.5, week[3].Accuracy, 1e-9)
	assert.Zero(t, week[0].Accuracy)
}

func TestSnapshot(t *testing.T) {
	today := clock.MustDay("2024-03-10")
	last := today.AddDays(-3)
	st := models.ProgressState{CurrentStreak: 4, LongestStreak: 6, StudyDays: 9, TotalSessions: 12, TotalQuestions: 40, TotalCorrect: 30, LastPracticeDate: &last}
	counts := models.MasteryCounts{Learning: 3, Familiar: 2, Mastered: 1}

	s := progress.Snapshot(st, counts, nil, today)

	assert.Equal(t, 6, s.TotalWords)
	assert.Equal(t, counts, s.Mastery)
	assert.InDelta(t, 0.75, s.AverageAccuracy, 1e-9)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 6, s.LongestStreak)
	assert.Len(t, s.WeeklyAccuracy, 7)
}

func TestAchievements(t *testing.T) {
	stats := models.ProgressStats{TotalPracticeSessions: 1, LongestStreak: 3, TotalWords: 12, Mastery: models.MasteryCounts{Mastered: 4}}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	unlocked := map[string]time.Time{"first-session": at}

	assert.Equal(t, []string{"streak-3"}, progress.NewlyUnlocked(stats, unlocked))

	list := progress.Achievements(stats, unlocked)
	require.Len(t, list, len(progress.Catalog))
	byID := map[string]models.Achievement{}
	for _, a := range list {
		byID[a.ID] = a
	}
	require.NotNil(t, byID["first-session"].UnlockedAt)
	assert.Equal(t, at, *byID["first-session"].UnlockedAt)
	assert.True(t, byID["streak-3"].Unlocked)
	assert.Nil(t, byID["streak-3"].UnlockedAt)
	assert.False(t, byID["streak-7"].Unlocked)
	assert.Equal(t, 3, byID["streak-7"].Progress)
	assert.Equal(t, 12, byID["words-50"].Progress)
	assert.Equal(t, 4, byID["mastered-10"].Progress)
	assert.False(t, byID["perfect-session"].Unlocked)
}
