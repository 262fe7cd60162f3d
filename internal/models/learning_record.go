package models

import (
	"fmt"
	"time"
)

// MasteryLevel is the coarse three-tier summary of how well a word is known.
type MasteryLevel string

const (
	MasteryLearning MasteryLevel = "learning"
	MasteryFamiliar MasteryLevel = "familiar"
	MasteryMastered MasteryLevel = "mastered"
)

// MasteryLevels lists every level in ascending order.
var MasteryLevels = []MasteryLevel{MasteryLearning, MasteryFamiliar, MasteryMastered}

func (m MasteryLevel) Valid() bool {
	switch m {
	case MasteryLearning, MasteryFamiliar, MasteryMastered:
		return true
	}
	return false
}

// ParseMasteryLevel rejects anything outside the closed set.
func ParseMasteryLevel(s string) (MasteryLevel, error) {
	m := MasteryLevel(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown mastery level %q", s)
	}
	return m, nil
}

// LearningRecord is the scheduling state of one word for one user.
type LearningRecord struct {
	UserID         string       `json:"-" db:"user_id"`
	WordID         string       `json:"word_id" db:"word_id"`
	AddedDate      time.Time    `json:"added_date" db:"added_at"`
	LastReviewDate *time.Time   `json:"last_review_date" db:"last_review_at"`
	NextReviewDate time.Time    `json:"next_review_date" db:"next_review_at"`
	ReviewCount    int          `json:"review_count" db:"review_count"`
	IntervalDays   int          `json:"interval_days" db:"interval_days"`
	EaseFactor     float64      `json:"ease_factor" db:"ease_factor"`
	MasteryLevel   MasteryLevel `json:"mastery_level" db:"mastery_level"`
}

// Validate checks the invariants a stored record must hold.
func (r LearningRecord) Validate() error {
	switch {
	case r.WordID == "":
		return fmt.Errorf("learning record: empty word id")
	case r.ReviewCount < 0:
		return fmt.Errorf("learning record %s: negative review count %d", r.WordID, r.ReviewCount)
	case r.IntervalDays < 0:
		return fmt.Errorf("learning record %s: negative interval %d", r.WordID, r.IntervalDays)
	case !r.MasteryLevel.Valid():
		return fmt.Errorf("learning record %s: unknown mastery level %q", r.WordID, r.MasteryLevel)
	}
	return nil
}

// ScheduleEntry is one row of a user's review schedule.
type ScheduleEntry struct {
	WordID         string       `json:"word_id"`
	NextReviewDate time.Time    `json:"next_review_date"`
	IntervalDays   int          `json:"interval_days"`
	EaseFactor     float64      `json:"ease_factor"`
	ReviewCount    int          `json:"review_count"`
	MasteryLevel   MasteryLevel `json:"mastery_level"`
}

// ScheduleEntryOf projects a record onto its schedule view.
func ScheduleEntryOf(r LearningRecord) ScheduleEntry {
	return ScheduleEntry{
		WordID:         r.WordID,
		NextReviewDate: r.NextReviewDate,
		IntervalDays:   r.IntervalDays,
		EaseFactor:     r.EaseFactor,
		ReviewCount:    r.ReviewCount,
		MasteryLevel:   r.MasteryLevel,
	}
}

// MasteryCounts tallies records per mastery level.
type MasteryCounts struct {
	Learning int `json:"learning"`
	Familiar int `json:"familiar"`
	Mastered int `json:"mastered"`
}

// Total is the number of records counted.
func (c MasteryCounts) Total() int {
	return c.Learning + c.Familiar + c.Mastered
}

// Add increments the bucket for level.
func (c *MasteryCounts) Add(level MasteryLevel, n int) {
	switch level {
	case MasteryLearning:
		c.Learning += n
	case MasteryFamiliar:
		c.Familiar += n
	case MasteryMastered:
		c.Mastered += n
	}
}
