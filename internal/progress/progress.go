// Package progress folds completed sessions into running counters and derives
// the reported statistics from them.
package progress

import (
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/models"
)

// Apply folds one completed session, finished on day in the user's zone, into
// the running state. A repeat session on the same day leaves the streak alone,
// the next day extends it, and any longer gap restarts it at 1.
func Apply(state models.ProgressState, result models.PracticeResult, day clock.Day) models.ProgressState {
	state.TotalSessions++
	state.TotalReviews += result.TotalQuestions
	state.TotalQuestions += result.TotalQuestions
	state.TotalCorrect += result.CorrectAnswers
	if result.TotalQuestions > 0 && result.CorrectAnswers == result.TotalQuestions {
		state.PerfectSessions++
	}

	switch {
	case state.LastPracticeDate == nil:
		state.CurrentStreak = 1
		state.StudyDays++
	default:
		gap := clock.DaysBetween(*state.LastPracticeDate, day)
		switch {
		case gap <= 0:
			// same day, or a session stamped before the last one after a zone change
			if state.CurrentStreak == 0 {
				state.CurrentStreak = 1
			}
			return finish(state, *state.LastPracticeDate)
		case gap == 1:
			state.CurrentStreak++
		default:
			state.CurrentStreak = 1
		}
		state.StudyDays++
	}
	return finish(state, day)
}

func finish(state models.ProgressState, day clock.Day) models.ProgressState {
	if state.CurrentStreak > state.LongestStreak {
		state.LongestStreak = state.CurrentStreak
	}
	d := day
	state.LastPracticeDate = &d
	return state
}

// EffectiveStreak is the stored streak as seen on today: once a full day has
// been missed the streak is broken even though no session has reset it yet.
func EffectiveStreak(state models.ProgressState, today clock.Day) int {
	if state.LastPracticeDate == nil {
		return 0
	}
	if clock.DaysBetween(*state.LastPracticeDate, today) > 1 {
		return 0
	}
	return state.CurrentStreak
}

// AverageAccuracy is weighted by question count across all sessions.
func AverageAccuracy(state models.ProgressState) float64 {
	if state.TotalQuestions == 0 {
		return 0
	}
	return float64(state.TotalCorrect) / float64(state.TotalQuestions)
}

// WeeklyWindow returns the first and last day of the 7-day window ending today.
func WeeklyWindow(today clock.Day) (clock.Day, clock.Day) {
	return today.AddDays(-6), today
}

// WeeklyAccuracy lays the per-day aggregates onto the 7-day window ending
// today, oldest first. Days without sessions report zero.
func WeeklyAccuracy(days []models.DailyAccuracy, today clock.Day) []models.DailyAccuracy {
	byDay := make(map[clock.Day]models.DailyAccuracy, len(days))
	for _, d := range days {
		agg := byDay[d.Date]
		agg.Questions += d.Questions
		agg.Correct += d.Correct
		byDay[d.Date] = agg
	}

	from, _ := WeeklyWindow(today)
	out := make([]models.DailyAccuracy, 7)
	for i := range out {
		day := from.AddDays(i)
		agg := byDay[day]
		out[i] = models.DailyAccuracy{Date: day, Questions: agg.Questions, Correct: agg.Correct}
		if agg.Questions > 0 {
			out[i].Accuracy = float64(agg.Correct) / float64(agg.Questions)
		}
	}
	return out
}

// Snapshot assembles the reported statistics. counts is a live tally over
// the user's learning records.
func Snapshot(state models.ProgressState, counts models.MasteryCounts, days []models.DailyAccuracy, today clock.Day) models.ProgressStats {
	return models.ProgressStats{
		TotalWords:            counts.Total(),
		Mastery:               counts,
		AverageAccuracy:       AverageAccuracy(state),
		CurrentStreak:         EffectiveStreak(state, today),
		LongestStreak:         state.LongestStreak,
		StudyDays:             state.StudyDays,
		TotalPracticeSessions: state.TotalSessions,
		TotalReviews:          state.TotalReviews,
		TotalQuestions:        state.TotalQuestions,
		TotalCorrect:          state.TotalCorrect,
		PerfectSessions:       state.PerfectSessions,
		LastPracticeDate:      state.LastPracticeDate,
		WeeklyAccuracy:        WeeklyAccuracy(days, today),
	}
}
