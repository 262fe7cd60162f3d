package grading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/wordflash/internal/grading"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/srs"
)

func TestGrade_MultipleChoice(t *testing.T) {
	q := models.PracticeQuestion{
		ID:     "q1",
		WordID: "cat",
		Type:   models.QuestionMultipleChoice,
		Options: []models.Option{
			{ID: "A", Text: "cat"},
			{ID: "B", Text: "dog"},
		},
		CorrectAnswer: "A",
	}

	assert.Equal(t, grading.Result{Correct: true, Quality: srs.QualityPerfect}, grading.Grade(q, "A"))
	assert.Equal(t, grading.Result{Correct: false, Quality: srs.QualityIncorrect}, grading.Grade(q, "B"))
	assert.False(t, grading.Grade(q, "a").Correct, "option ids are matched exactly")
	assert.False(t, grading.Grade(q, "cat").Correct, "option text is not an option id")
}

func TestGrade_TypedAnswers(t *testing.T) {
	tests := []struct {
		name   string
		qType  models.QuestionType
		answer string
		want   bool
	}{
		{"fill blank exact", models.QuestionFillBlank, "apple", true},
		{"fill blank case", models.QuestionFillBlank, "APPLE", true},
		{"fill blank padded", models.QuestionFillBlank, "  Apple \n", true},
		{"fill blank typo", models.QuestionFillBlank, "aple", false},
		{"dictation exact", models.QuestionDictation, "apple", true},
		{"dictation inner space", models.QuestionDictation, "ap ple", false},
		{"dictation empty", models.QuestionDictation, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := models.PracticeQuestion{ID: "q", WordID: "w", Type: tt.qType, CorrectAnswer: "Apple"}
			got := grading.Grade(q, tt.answer)
			assert.Equal(t, tt.want, got.Correct)
			if tt.want {
				assert.Equal(t, srs.QualityPerfect, got.Quality)
			} else {
				assert.Equal(t, srs.QualityIncorrect, got.Quality)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	assert.Equal(t, grading.Result{Correct: false, Quality: srs.QualityIncorrect}, grading.Skip())
}

func TestScoreAndAccuracy(t *testing.T) {
	assert.Equal(t, 0, grading.Score(0, 0))
	assert.Equal(t, 0.0, grading.Accuracy(0, 0))
	assert.Equal(t, 67, grading.Score(2, 3))
	assert.InDelta(t, 0.6667, grading.Accuracy(2, 3), 1e-4)
	assert.Equal(t, 100, grading.Score(5, 5))
	assert.Equal(t, 50, grading.Score(1, 2))
}
