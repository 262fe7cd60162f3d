package planner_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/planner"
)

func vocabulary() []models.Word {
	return []models.Word{
		{WordID: "apple", Term: "apple", Translation: "manzana", Example: "An Apple a day keeps the doctor away.", AudioURL: "tts://apple"},
		{WordID: "cat", Term: "cat", Translation: "gato", Example: "The cat sleeps."},
		{WordID: "dog", Term: "dog", Translation: "perro"},
		{WordID: "house", Term: "house", Translation: "casa"},
		{WordID: "home", Term: "home", Translation: "Casa"},
	}
}

func index(words []models.Word) map[string]models.Word {
	m := make(map[string]models.Word, len(words))
	for _, w := range words {
		m[w.WordID] = w
	}
	return m
}

func TestQuestions_PerType(t *testing.T) {
	vocab := vocabulary()
	task := models.DailyTask{
		UserID:  "u1",
		WordIDs: []string{"apple", "cat", "apple"},
		Types:   []models.QuestionType{models.QuestionFillBlank, models.QuestionMultipleChoice, models.QuestionDictation},
	}

	qs, err := planner.Questions(task, index(vocab), vocab, rand.New(rand.NewSource(5)), 4)
	require.NoError(t, err)
	require.Len(t, qs, 3)

	fill := qs[0]
	assert.Equal(t, models.QuestionFillBlank, fill.Type)
	assert.Equal(t, "An ____ a day keeps the doctor away.", fill.Prompt)
	assert.Equal(t, "apple", fill.CorrectAnswer)

	mc := qs[1]
	assert.Equal(t, models.QuestionMultipleChoice, mc.Type)
	assert.Equal(t, "cat", mc.Prompt)
	require.Len(t, mc.Options, 4)
	var correctText string
	ids := map[string]bool{}
	texts := map[string]bool{}
	for _, o := range mc.Options {
		ids[o.ID] = true
		assert.False(t, texts[o.Text], "duplicate option text %q", o.Text)
		texts[o.Text] = true
		if o.ID == mc.CorrectAnswer {
			correctText = o.Text
		}
	}
	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": true, "D": true}, ids)
	assert.Equal(t, "gato", correctText)

	dict := qs[2]
	assert.Equal(t, models.QuestionDictation, dict.Type)
	assert.Equal(t, "tts://apple", dict.AudioURL)
	assert.Equal(t, "apple", dict.CorrectAnswer)

	assert.NotEqual(t, qs[0].ID, qs[2].ID, "question ids are unique per instance")
}

func TestQuestions_MultipleChoiceFallsBackWithoutDistractors(t *testing.T) {
	task := models.DailyTask{WordIDs: []string{"cat"}, Types: []models.QuestionType{models.QuestionMultipleChoice}}
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name     string
		vocab    []models.Word
		wantType models.QuestionType
	}{
		{
			name:     "single word",
			vocab:    []models.Word{{WordID: "cat", Term: "cat", Translation: "gato"}},
			wantType: models.QuestionFillBlank,
		},
		{
			name:     "no translation",
			vocab:    []models.Word{{WordID: "cat", Term: "cat"}, {WordID: "dog", Term: "dog", Translation: "perro"}},
			wantType: models.QuestionFillBlank,
		},
		{
			name: "duplicate or empty distractors",
			vocab: []models.Word{
				{WordID: "cat", Term: "cat", Translation: "gato", AudioURL: "cat.mp3"},
				{WordID: "kitty", Term: "kitty", Translation: " Gato "},
				{WordID: "owl", Term: "owl"},
			},
			wantType: models.QuestionDictation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := planner.Questions(task, index(tt.vocab), tt.vocab, rng, 4)
			require.NoError(t, err)
			require.Len(t, qs, 1)
			assert.Equal(t, tt.wantType, qs[0].Type)
			assert.Empty(t, qs[0].Options)
			assert.Equal(t, "cat", qs[0].CorrectAnswer)
			assert.NotEmpty(t, qs[0].Prompt)
		})
	}
}

func TestQuestions_MultipleChoiceWithOneDistractor(t *testing.T) {
	vocab := []models.Word{{WordID: "cat", Term: "cat", Translation: "gato"}, {WordID: "dog", Term: "dog", Translation: "perro"}}
	task := models.DailyTask{WordIDs: []string{"cat"}, Types: []models.QuestionType{models.QuestionMultipleChoice}}

	qs, err := planner.Questions(task, index(vocab), vocab, rand.New(rand.NewSource(1)), 4)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionMultipleChoice, qs[0].Type)
	require.Len(t, qs[0].Options, 2)
	for _, o := range qs[0].Options {
		assert.NotEmpty(t, o.Text)
	}
}

func TestQuestions_UnknownWord(t *testing.T) {
	task := models.DailyTask{UserID: "u1", WordIDs: []string{"ghost"}, Types: []models.QuestionType{models.QuestionFillBlank}}

	_, err := planner.Questions(task, map[string]models.Word{}, nil, rand.New(rand.NewSource(1)), 4)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFillBlankPrompt_Fallbacks(t *testing.T) {
	assert.Equal(t, "____ (perro)", planner.FillBlankPrompt(models.Word{Term: "dog", Translation: "perro"}))
	assert.Equal(t, "____ (perro)", planner.FillBlankPrompt(models.Word{Term: "dog", Translation: "perro", Example: "A cat."}))
	assert.Equal(t, "____", planner.FillBlankPrompt(models.Word{Term: "x", Example: "I like c++ a lot"}))
	assert.Equal(t, "I like ____ a lot", planner.FillBlankPrompt(models.Word{Term: "c++", Example: "I like c++ a lot"}))
}

func TestRedact(t *testing.T) {
	qs := []models.PracticeQuestion{{ID: "q1", CorrectAnswer: "A"}}
	out := planner.Redact(qs)
	assert.Empty(t, out[0].CorrectAnswer)
	assert.Equal(t, "A", qs[0].CorrectAnswer)
}
