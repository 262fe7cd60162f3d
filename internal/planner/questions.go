package planner

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/models"
)

const blank = "____"

// Questions generates one question per task word. words must contain every
// word of the task; vocabulary is the user's full word list and supplies the
// multiple-choice distractors. options caps the number of choices shown.
func Questions(task models.DailyTask, words map[string]models.Word, vocabulary []models.Word, rng *rand.Rand, options int) ([]models.PracticeQuestion, error) {
	if options < 2 {
		options = 2
	}

	pool := make([]models.Word, len(vocabulary))
	copy(pool, vocabulary)
	sort.Slice(pool, func(i, j int) bool { return pool[i].WordID < pool[j].WordID })

	questions := make([]models.PracticeQuestion, 0, len(task.WordIDs))
	for i, wordID := range task.WordIDs {
		word, ok := words[wordID]
		if !ok {
			return nil, apperrors.NewUnknownWordError(task.UserID, wordID)
		}
		qType := models.QuestionFillBlank
		if i < len(task.Types) {
			qType = task.Types[i]
		}

		q := models.PracticeQuestion{
			ID:     uuid.NewString(),
			WordID: wordID,
			Type:   qType,
		}
		switch qType {
		case models.QuestionFillBlank:
			q.Prompt = recallPrompt(qType, word)
			q.CorrectAnswer = word.Term
		case models.QuestionMultipleChoice:
			opts, correct := choices(word, pool, rng, options)
			if len(opts) < 2 {
				// Nothing to choose between; ask for the term instead.
				q.Type = fallbackType(word)
				q.Prompt = recallPrompt(q.Type, word)
				q.AudioURL = word.AudioURL
				q.CorrectAnswer = word.Term
				break
			}
			q.Prompt = word.Term
			q.Options, q.CorrectAnswer = opts, correct
		case models.QuestionDictation:
			q.Prompt = recallPrompt(qType, word)
			q.AudioURL = word.AudioURL
			q.CorrectAnswer = word.Term
		default:
			return nil, apperrors.NewInvalidStateError(fmt.Sprintf("task for %s has unknown question type %q", task.Date, qType))
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// FillBlankPrompt blanks every occurrence of the term in the example sentence.
// Without a usable example the translation is shown instead.
func FillBlankPrompt(w models.Word) string {
	if w.Term != "" && w.Example != "" {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(w.Term))
		if re.MatchString(w.Example) {
			return re.ReplaceAllString(w.Example, blank)
		}
	}
	if w.Translation != "" {
		return fmt.Sprintf("%s (%s)", blank, w.Translation)
	}
	return blank
}

func recallPrompt(t models.QuestionType, w models.Word) string {
	if t == models.QuestionDictation {
		return "Write the word you hear"
	}
	return FillBlankPrompt(w)
}

// fallbackType picks the question asked when multiple choice has no
// distinct options: dictation when there is audio, fill-blank otherwise.
func fallbackType(w models.Word) models.QuestionType {
	if w.AudioURL != "" {
		return models.QuestionDictation
	}
	return models.QuestionFillBlank
}

// choices returns nil when the word has no translation or no other word
// offers a distinct non-empty one.
func choices(word models.Word, pool []models.Word, rng *rand.Rand, limit int) ([]models.Option, string) {
	own := strings.ToLower(strings.TrimSpace(word.Translation))
	if own == "" {
		return nil, ""
	}
	seen := map[string]bool{own: true}
	var distractors []string
	for _, w := range pool {
		if w.WordID == word.WordID {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(w.Translation))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		distractors = append(distractors, w.Translation)
	}
	if len(distractors) == 0 {
		return nil, ""
	}
	rng.Shuffle(len(distractors), func(i, j int) { distractors[i], distractors[j] = distractors[j], distractors[i] })
	if len(distractors) > limit-1 {
		distractors = distractors[:limit-1]
	}

	texts := append([]string{word.Translation}, distractors...)
	correct := 0
	rng.Shuffle(len(texts), func(i, j int) {
		texts[i], texts[j] = texts[j], texts[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	})

	opts := make([]models.Option, len(texts))
	for i, t := range texts {
		opts[i] = models.Option{ID: optionID(i), Text: t}
	}
	return opts, opts[correct].ID
}

// optionID maps 0,1,2,... to A,B,C,...
func optionID(i int) string {
	return string(rune('A' + i))
}

// Redact strips the correct answers before questions go to the client.
func Redact(questions []models.PracticeQuestion) []models.PracticeQuestion {
	out := make([]models.PracticeQuestion, len(questions))
	for i, q := range questions {
		q.CorrectAnswer = ""
		out[i] = q
	}
	return out
}
