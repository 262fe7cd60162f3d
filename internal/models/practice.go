package models

import (
	"fmt"
	"time"

	"github.com/vytor/wordflash/internal/clock"
)

// QuestionType selects how a word is practiced.
type QuestionType string

const (
	QuestionFillBlank      QuestionType = "fill-blank"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionDictation      QuestionType = "dictation"
)

// QuestionTypes is the fixed sampling order used by the task builder.
var QuestionTypes = []QuestionType{QuestionFillBlank, QuestionMultipleChoice, QuestionDictation}

func (q QuestionType) Valid() bool {
	switch q {
	case QuestionFillBlank, QuestionMultipleChoice, QuestionDictation:
		return true
	}
	return false
}

func ParseQuestionType(s string) (QuestionType, error) {
	q := QuestionType(s)
	if !q.Valid() {
		return "", fmt.Errorf("unknown question type %q", s)
	}
	return q, nil
}

// DailyTask is the frozen list of words to practice on a given day.
type DailyTask struct {
	UserID           string         `json:"-"`
	Date             clock.Day      `json:"date"`
	WordIDs          []string       `json:"word_ids"`
	Types            []QuestionType `json:"question_types"`
	WordsCount       int            `json:"words_count"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	CreatedAt        time.Time      `json:"created_at"`
}

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type PracticeQuestion struct {
	ID            string       `json:"id"`
	WordID        string       `json:"word_id"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Options       []Option     `json:"options,omitempty"`
	AudioURL      string       `json:"audio_url,omitempty"`
}

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

func ParseSessionStatus(s string) (SessionStatus, error) {
	switch SessionStatus(s) {
	case SessionActive, SessionCompleted:
		return SessionStatus(s), nil
	}
	return "", fmt.Errorf("unknown session status %q", s)
}

// PracticeSession is one run through a task's question set.
type PracticeSession struct {
	ID          string             `json:"id"`
	UserID      string             `json:"-"`
	TaskDate    clock.Day          `json:"task_date"`
	Questions   []PracticeQuestion `json:"questions"`
	Status      SessionStatus      `json:"status"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// Question looks up a question of this session by id.
func (s *PracticeSession) Question(id string) (PracticeQuestion, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return PracticeQuestion{}, false
}

// Attempt is the first answer submitted for a question during a session.
type Attempt struct {
	SessionID   string    `json:"session_id" db:"session_id"`
	QuestionID  string    `json:"question_id" db:"question_id"`
	Answer      string    `json:"answer" db:"answer"`
	Correct     bool      `json:"correct" db:"correct"`
	SubmittedAt time.Time `json:"submitted_at" db:"submitted_at"`
}

type AnswerFeedback struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

type SessionAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Skipped    bool   `json:"skipped"`
}

// SessionAnswers is the batch committed by CompleteSession.
type SessionAnswers struct {
	SessionID string          `json:"session_id"`
	Answers   []SessionAnswer `json:"answers"`
}

type IncorrectAnswer struct {
	QuestionID    string `json:"question_id"`
	WordID        string `json:"word_id"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

type PracticeResult struct {
	SessionID       string            `json:"session_id"`
	UserID          string            `json:"-"`
	TotalQuestions  int               `json:"total_questions"`
	CorrectAnswers  int               `json:"correct_answers"`
	Accuracy        float64           `json:"accuracy"`
	Score           int               `json:"score"`
	DurationSeconds int               `json:"duration_seconds"`
	Incorrect       []IncorrectAnswer `json:"incorrect"`
	CompletedAt     time.Time         `json:"completed_at"`
}

// WrongAnswerEntry is one word waiting in the retry queue.
type WrongAnswerEntry struct {
	UserID          string    `json:"-" db:"user_id"`
	WordID          string    `json:"word_id" db:"word_id"`
	UserWrongAnswer string    `json:"user_wrong_answer" db:"user_wrong_answer"`
	ReviewCount     int       `json:"review_count" db:"review_count"`
	AddedAt         time.Time `json:"added_at" db:"added_at"`
}
