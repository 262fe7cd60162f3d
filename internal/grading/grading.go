// Package grading compares submitted answers with a question's expected
// answer and turns the outcome into a scheduler quality signal.
package grading

import (
	"math"
	"strings"

	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/srs"
)

// Result is the outcome of grading one question.
type Result struct {
	Correct bool        `json:"correct"`
	Quality srs.Quality `json:"quality"`
}

// Matches reports whether answer is accepted for q.
// Multiple choice compares option ids exactly; typed answers ignore case and
// surrounding whitespace.
func Matches(q models.PracticeQuestion, answer string) bool {
	if q.Type == models.QuestionMultipleChoice {
		return answer == q.CorrectAnswer
	}
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
}

// Grade grades answer as the first submission for q. There is no partial
// credit: a first-try hit is perfect, anything else is incorrect.
func Grade(q models.PracticeQuestion, answer string) Result {
	if Matches(q, answer) {
		return Result{Correct: true, Quality: srs.QualityPerfect}
	}
	return Result{Correct: false, Quality: srs.QualityIncorrect}
}

// Skip is the result recorded for a skipped question. It takes the incorrect
// branch of the scheduler so skipping is never rewarded.
func Skip() Result {
	return Result{Correct: false, Quality: srs.QualityIncorrect}
}

// Accuracy is correct/total, or 0 for an empty session.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// Score is round(100 * correct / total), or 0 for an empty session.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
