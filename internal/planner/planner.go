// Package planner builds daily tasks from a due set and turns a task into a
// concrete question set.
package planner

import (
	"math"
	"math/rand"
	"sort"

	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/models"
)

// TypeWeights are the relative sampling weights for question types.
type TypeWeights struct {
	FillBlank      float64 `json:"fill_blank"`
	MultipleChoice float64 `json:"multiple_choice"`
	Dictation      float64 `json:"dictation"`
}

// Normalize scales the weights to sum to 1.
func (w TypeWeights) Normalize() (TypeWeights, error) {
	if w.FillBlank < 0 || w.MultipleChoice < 0 || w.Dictation < 0 {
		return TypeWeights{}, apperrors.NewConfigurationError("question type weights must not be negative")
	}
	total := w.FillBlank + w.MultipleChoice + w.Dictation
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return TypeWeights{}, apperrors.NewConfigurationError("question type weights must sum to a positive total")
	}
	return TypeWeights{
		FillBlank:      w.FillBlank / total,
		MultipleChoice: w.MultipleChoice / total,
		Dictation:      w.Dictation / total,
	}, nil
}

func (w TypeWeights) weight(t models.QuestionType) float64 {
	switch t {
	case models.QuestionFillBlank:
		return w.FillBlank
	case models.QuestionMultipleChoice:
		return w.MultipleChoice
	case models.QuestionDictation:
		return w.Dictation
	}
	return 0
}

// Config is the engine-facing task configuration.
type Config struct {
	MaxWordsPerTask int
	TypeWeights     TypeWeights
	SecondsPerWord  int
}

// DefaultConfig mirrors the configuration defaults.
func DefaultConfig() Config {
	return Config{
		MaxWordsPerTask: 20,
		TypeWeights:     TypeWeights{FillBlank: 1, MultipleChoice: 1, Dictation: 1},
		SecondsPerWord:  45,
	}
}

// Validate checks the configuration without building anything.
func (c Config) Validate() error {
	if c.MaxWordsPerTask < 1 {
		return apperrors.NewConfigurationError("max words per task must be at least 1")
	}
	if c.SecondsPerWord < 1 {
		return apperrors.NewConfigurationError("seconds per word must be at least 1")
	}
	_, err := c.TypeWeights.Normalize()
	return err
}

// SortDue orders records oldest-due first, tie-broken by word id.
func SortDue(records []models.LearningRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.NextReviewDate.Equal(b.NextReviewDate) {
			return a.NextReviewDate.Before(b.NextReviewDate)
		}
		return a.WordID < b.WordID
	})
}

// Build caps the due set at MaxWordsPerTask and assigns a question type to
// each selected word. The same due set, config and seed give the same task.
// An empty due set yields an empty task.
func Build(userID string, due []models.LearningRecord, date clock.Day, cfg Config, rng *rand.Rand) (models.DailyTask, error) {
	if err := cfg.Validate(); err != nil {
		return models.DailyTask{}, err
	}

	records := make([]models.LearningRecord, len(due))
	copy(records, due)
	SortDue(records)
	if len(records) > cfg.MaxWordsPerTask {
		records = records[:cfg.MaxWordsPerTask]
	}

	wordIDs := make([]string, len(records))
	for i, r := range records {
		wordIDs[i] = r.WordID
	}

	types, err := AssignTypes(len(wordIDs), cfg.TypeWeights, rng)
	if err != nil {
		return models.DailyTask{}, err
	}

	return models.DailyTask{
		UserID:           userID,
		Date:             date,
		WordIDs:          wordIDs,
		Types:            types,
		WordsCount:       len(wordIDs),
		EstimatedMinutes: EstimateMinutes(len(wordIDs), cfg.SecondsPerWord),
	}, nil
}

// AssignTypes samples n question types from the weights.
func AssignTypes(n int, weights TypeWeights, rng *rand.Rand) ([]models.QuestionType, error) {
	w, err := weights.Normalize()
	if err != nil {
		return nil, err
	}
	types := make([]models.QuestionType, n)
	for i := range types {
		types[i] = sample(w, rng.Float64())
	}
	return types, nil
}

func sample(w TypeWeights, r float64) models.QuestionType {
	var last models.QuestionType
	acc := 0.0
	for _, t := range models.QuestionTypes {
		p := w.weight(t)
		if p <= 0 {
			continue
		}
		last = t
		acc += p
		if r < acc {
			return t
		}
	}
	// rounding can leave r just above the final cumulative weight
	return last
}

// EstimateMinutes is ceil(words * secondsPerWord / 60).
func EstimateMinutes(words, secondsPerWord int) int {
	if words <= 0 || secondsPerWord <= 0 {
		return 0
	}
	return (words*secondsPerWord + 59) / 60
}
