// Package srs holds the SM-2 variant that drives review scheduling.
// Everything here is a pure function of its inputs.
package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/vytor/wordflash/internal/models"
)

// Quality is the grading signal fed into the update rule (0..5).
type Quality int

const (
	QualityIncorrect Quality = 0
	QualityHinted    Quality = 3
	QualityPerfect   Quality = 5
)

func (q Quality) Valid() bool {
	return q >= 0 && q <= 5
}

// Params are the tunable constants of the update rule.
type Params struct {
	InitialEase      float64
	MinEase          float64
	MaxEase          float64
	IncorrectPenalty float64
	PassThreshold    Quality
	FamiliarReviews  int
	MasteredReviews  int
	MasteredInterval int
}

// DefaultParams returns the stock constants.
func DefaultParams() Params {
	return Params{
		InitialEase:      2.5,
		MinEase:          1.3,
		MaxEase:          2.7,
		IncorrectPenalty: 0.2,
		PassThreshold:    QualityHinted,
		FamiliarReviews:  3,
		MasteredReviews:  6,
		MasteredInterval: 21,
	}
}

// Validate rejects parameter sets that would break the record invariants.
func (p Params) Validate() error {
	switch {
	case p.MinEase <= 0:
		return fmt.Errorf("min ease must be positive, got %v", p.MinEase)
	case p.MaxEase < p.MinEase:
		return fmt.Errorf("max ease %v below min ease %v", p.MaxEase, p.MinEase)
	case p.InitialEase < p.MinEase || p.InitialEase > p.MaxEase:
		return fmt.Errorf("initial ease %v outside [%v, %v]", p.InitialEase, p.MinEase, p.MaxEase)
	case p.IncorrectPenalty < 0:
		return fmt.Errorf("incorrect penalty must not be negative, got %v", p.IncorrectPenalty)
	case !p.PassThreshold.Valid():
		return fmt.Errorf("pass threshold %d outside 0..5", p.PassThreshold)
	case p.FamiliarReviews < 0 || p.MasteredReviews < p.FamiliarReviews:
		return fmt.Errorf("mastery review thresholds out of order: familiar=%d mastered=%d", p.FamiliarReviews, p.MasteredReviews)
	case p.MasteredInterval < 1:
		return fmt.Errorf("mastered interval must be at least 1 day, got %d", p.MasteredInterval)
	}
	return nil
}

// NewRecord is the state of a word that has just entered the vocabulary.
// It is due immediately.
func NewRecord(userID, wordID string, addedAt time.Time, p Params) models.LearningRecord {
	return models.LearningRecord{
		UserID:         userID,
		WordID:         wordID,
		AddedDate:      addedAt,
		NextReviewDate: addedAt,
		ReviewCount:    0,
		IntervalDays:   0,
		EaseFactor:     p.InitialEase,
		MasteryLevel:   models.MasteryLearning,
	}
}

// Mastery derives the level from review count and interval. A zero interval
// means the word is due again today and is always learning.
func Mastery(reviewCount, intervalDays int, p Params) models.MasteryLevel {
	switch {
	case intervalDays == 0, reviewCount < p.FamiliarReviews:
		return models.MasteryLearning
	case reviewCount < p.MasteredReviews && intervalDays < p.MasteredInterval:
		return models.MasteryFamiliar
	default:
		return models.MasteryMastered
	}
}

// Apply updates a record for one graded attempt at now.
// The interval grows with the ease factor held before this attempt.
func Apply(rec models.LearningRecord, q Quality, now time.Time, p Params) models.LearningRecord {
	rec.ReviewCount++

	if q < p.PassThreshold {
		rec.IntervalDays = 0
		rec.EaseFactor = clamp(rec.EaseFactor-p.IncorrectPenalty, p.MinEase, p.MaxEase)
		rec.MasteryLevel = models.MasteryLearning
	} else {
		rec.IntervalDays = nextInterval(rec.ReviewCount, rec.IntervalDays, rec.EaseFactor)
		rec.EaseFactor = clamp(rec.EaseFactor+easeDelta(q), p.MinEase, p.MaxEase)
		rec.MasteryLevel = Mastery(rec.ReviewCount, rec.IntervalDays, p)
	}

	last := now
	rec.LastReviewDate = &last
	rec.NextReviewDate = now.AddDate(0, 0, rec.IntervalDays)
	return rec
}

func nextInterval(reviewCount, interval int, ease float64) int {
	switch reviewCount {
	case 1:
		return 1
	case 2:
		return 6
	}
	next := int(math.Round(float64(interval) * ease))
	if next < 1 {
		next = 1
	}
	return next
}

func easeDelta(q Quality) float64 {
	miss := float64(5 - q)
	return 0.1 - miss*(0.08+miss*0.02)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
