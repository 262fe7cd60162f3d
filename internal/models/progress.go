package models

import (
	"time"

	"github.com/vytor/wordflash/internal/clock"
)

// ProgressState holds the persisted running counters behind ProgressStats.
type ProgressState struct {
	UserID           string     `db:"user_id"`
	CurrentStreak    int        `db:"current_streak"`
	LongestStreak    int        `db:"longest_streak"`
	StudyDays        int        `db:"study_days"`
	TotalSessions    int        `db:"total_sessions"`
	TotalReviews     int        `db:"total_reviews"`
	TotalQuestions   int        `db:"total_questions"`
	TotalCorrect     int        `db:"total_correct"`
	PerfectSessions  int        `db:"perfect_sessions"`
	LastPracticeDate *clock.Day `db:"last_practice_date"`
}

// DailyAccuracy aggregates all sessions of one day.
type DailyAccuracy struct {
	Date      clock.Day `json:"date" db:"day"`
	Questions int       `json:"questions" db:"questions"`
	Correct   int       `json:"correct" db:"correct"`
	Accuracy  float64   `json:"accuracy" db:"-"`
}

type Achievement struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Target     int        `json:"target"`
	Progress   int        `json:"progress"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

type ProgressStats struct {
	TotalWords            int             `json:"total_words"`
	Mastery               MasteryCounts   `json:"mastery"`
	AverageAccuracy       float64         `json:"average_accuracy"`
	CurrentStreak         int             `json:"current_streak"`
	LongestStreak         int             `json:"longest_streak"`
	StudyDays             int             `json:"study_days"`
	TotalPracticeSessions int             `json:"total_practice_sessions"`
	TotalReviews          int             `json:"total_reviews"`
	TotalQuestions        int             `json:"total_questions"`
	TotalCorrect          int             `json:"total_correct"`
	PerfectSessions       int             `json:"perfect_sessions"`
	LastPracticeDate      *clock.Day      `json:"last_practice_date"`
	WeeklyAccuracy        []DailyAccuracy `json:"weekly_accuracy"`
	Achievements          []Achievement   `json:"achievements"`
}
