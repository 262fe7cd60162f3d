package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/grading"
	"github.com/vytor/wordflash/internal/lock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/metrics"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/planner"
	"github.com/vytor/wordflash/internal/progress"
	"github.com/vytor/wordflash/internal/repository"
)

// PracticeService runs practice sessions over a daily task
type PracticeService interface {
	StartSession(ctx context.Context, userID string, date clock.Day) (*models.PracticeSession, error)
	// SubmitAnswer grades one answer for immediate feedback. Only the first
	// attempt per question is kept; learning state is not touched.
	SubmitAnswer(ctx context.Context, userID, questionID, answer string) (*models.AnswerFeedback, error)
	// CompleteSession commits the whole session in one transaction.
	CompleteSession(ctx context.Context, userID string, answers models.SessionAnswers) (*models.PracticeResult, error)
}

type practiceService struct {
	deps  Deps
	tasks TaskService
}

// NewPracticeService creates a new PracticeService
func NewPracticeService(d Deps, tasks TaskService) PracticeService {
	return &practiceService{deps: d.withDefaults(), tasks: tasks}
}

func (s *practiceService) StartSession(ctx context.Context, userID string, date clock.Day) (*models.PracticeSession, error) {
	log := logger.FromContext(ctx)

	task, err := s.tasks.GetDailyTask(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if len(task.WordIDs) == 0 {
		return nil, errors.NewInvalidStateError(fmt.Sprintf("no words to practice on %s", task.Date))
	}

	words, err := s.deps.Store.Words().ListByIDs(ctx, userID, task.WordIDs)
	if err != nil {
		log.Error("failed to load task words: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}
	live := liveTask(*task, words)
	if len(live.WordIDs) < len(task.WordIDs) {
		log.Warn("skipping %d deleted words from task: user_id=%s, date=%s", len(task.WordIDs)-len(live.WordIDs), userID, task.Date)
	}
	if len(live.WordIDs) == 0 {
		return nil, errors.NewInvalidStateError(fmt.Sprintf("every word of the %s task has been deleted", task.Date))
	}

	vocabulary, err := s.deps.Store.Words().List(ctx, userID)
	if err != nil {
		return nil, errors.WithContext(err, userID, "")
	}
	questions, err := planner.Questions(live, words, vocabulary, s.deps.Rand(), s.deps.Config.MultipleChoiceOptions)
	if err != nil {
		return nil, err
	}

	session := models.PracticeSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		TaskDate:  task.Date,
		Questions: questions,
		Status:    models.SessionActive,
		StartedAt: s.deps.Clock.Now(),
	}
	if err := s.deps.Store.Sessions().Insert(ctx, session); err != nil {
		log.Error("failed to store session: %v", err)
		return nil, errors.WithContext(err, userID, "")
	}

	log.Info("session started: user_id=%s, session_id=%s, questions=%d", userID, session.ID, len(questions))
	return &session, nil
}

// liveTask drops words removed since the task was built.
func liveTask(task models.DailyTask, words map[string]models.Word) models.DailyTask {
	live := task
	live.WordIDs = make([]string, 0, len(task.WordIDs))
	live.Types = make([]models.QuestionType, 0, len(task.Types))
	for i, id := range task.WordIDs {
		if _, ok := words[id]; !ok {
			continue
		}
		live.WordIDs = append(live.WordIDs, id)
		if i < len(task.Types) {
			live.Types = append(live.Types, task.Types[i])
		}
	}
	live.WordsCount = len(live.WordIDs)
	return live
}

func (s *practiceService) SubmitAnswer(ctx context.Context, userID, questionID, answer string) (*models.AnswerFeedback, error) {
	log := logger.FromContext(ctx)
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	session, err := s.deps.Store.Sessions().FindByQuestion(ctx, userID, questionID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("question", questionID)
		}
		return nil, errors.WithContext(err, userID, "")
	}
	if session.Status != models.SessionActive {
		return nil, errors.NewInvalidStateError(fmt.Sprintf("session %s is already completed", session.ID))
	}
	q, ok := session.Question(questionID)
	if !ok {
		return nil, errors.NewNotFoundError("question", questionID)
	}

	result := grading.Grade(q, answer)
	first, err := s.deps.Store.Sessions().RecordAttempt(ctx, models.Attempt{
		SessionID:   session.ID,
		QuestionID:  questionID,
		Answer:      answer,
		Correct:     result.Correct,
		SubmittedAt: s.deps.Clock.Now(),
	})
	if err != nil {
		log.Error("failed to record attempt: %v", err)
		return nil, errors.WithContext(err, userID, q.WordID)
	}
	log.Debug("answer submitted: question_id=%s, correct=%t, first_attempt=%t", questionID, result.Correct, first)

	return &models.AnswerFeedback{Correct: result.Correct, CorrectAnswer: q.CorrectAnswer}, nil
}

// graded is one question's final outcome within a session.
type graded struct {
	question   models.PracticeQuestion
	result     grading.Result
	userAnswer string
	skipped    bool
}

func (s *practiceService) CompleteSession(ctx context.Context, userID string, submitted models.SessionAnswers) (*models.PracticeResult, error) {
	log := logger.FromContext(ctx)
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	log.Debug("completing session: user_id=%s, session_id=%s, answers=%d", userID, submitted.SessionID, len(submitted.Answers))

	session, err := s.deps.Store.Sessions().Get(ctx, userID, submitted.SessionID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("session", submitted.SessionID)
		}
		return nil, errors.WithContext(err, userID, "")
	}
	if session.Status != models.SessionActive {
		return nil, errors.NewInvalidStateError(fmt.Sprintf("session %s is already completed", session.ID))
	}
	answers, err := indexAnswers(session, submitted.Answers)
	if err != nil {
		return nil, err
	}
	loc, err := userLocation(ctx, s.deps.Store, userID)
	if err != nil {
		return nil, err
	}

	keys := []string{lock.SessionKey(session.ID), lock.QueueKey(userID), lock.ProgressKey(userID)}
	for _, q := range session.Questions {
		keys = append(keys, lock.WordKey(userID, q.WordID))
	}
	release, err := acquire(ctx, s.deps.Locks, keys...)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.deps.Clock.Now()
	day := clock.DayOf(now, loc)
	var (
		result   models.PracticeResult
		outcomes []graded
		unlocked []string
	)
	err = s.deps.Store.InTx(ctx, func(tx repository.Store) error {
		ok, err := tx.Sessions().Complete(ctx, session.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NewInvalidStateError(fmt.Sprintf("session %s is already completed", session.ID))
		}

		attempts, err := tx.Sessions().Attempts(ctx, session.ID)
		if err != nil {
			return err
		}
		outcomes = gradeSession(session.Questions, answers, attempts)

		result = models.PracticeResult{
			SessionID:       session.ID,
			UserID:          userID,
			TotalQuestions:  len(outcomes),
			Incorrect:       []models.IncorrectAnswer{},
			DurationSeconds: int(now.Sub(session.StartedAt).Seconds()),
			CompletedAt:     now,
		}
		for _, o := range outcomes {
			if _, err := applyReview(ctx, tx, userID, o.question.WordID, o.result.Quality, now, s.deps.Config.SRS); err != nil {
				return wrap(err, userID, o.question.WordID)
			}
			if o.result.Correct {
				result.CorrectAnswers++
				continue
			}
			err := tx.WrongAnswers().Push(ctx, models.WrongAnswerEntry{
				UserID:          userID,
				WordID:          o.question.WordID,
				UserWrongAnswer: o.userAnswer,
				ReviewCount:     0,
				AddedAt:         now,
			})
			if err != nil {
				return wrap(err, userID, o.question.WordID)
			}
			result.Incorrect = append(result.Incorrect, models.IncorrectAnswer{
				QuestionID:    o.question.ID,
				WordID:        o.question.WordID,
				UserAnswer:    o.userAnswer,
				CorrectAnswer: o.question.CorrectAnswer,
			})
		}
		result.Accuracy = grading.Accuracy(result.CorrectAnswers, result.TotalQuestions)
		result.Score = grading.Score(result.CorrectAnswers, result.TotalQuestions)
		if result.DurationSeconds < 0 {
			result.DurationSeconds = 0
		}

		if err := tx.Sessions().InsertResult(ctx, result, day); err != nil {
			return err
		}

		unlocked, err = recordSession(ctx, tx, userID, result, day, now)
		return err
	})
	if err != nil {
		if errors.CodeOf(err) == errors.ErrCodeInternal {
			log.Error("failed to complete session: %v", err)
		}
		return nil, wrap(err, userID, "")
	}

	metrics.SessionsCompleted.Inc()
	for _, o := range outcomes {
		metrics.AnswersGraded.WithLabelValues(string(o.question.Type), metrics.Outcome(o.result.Correct, o.skipped)).Inc()
	}
	log.Info("session completed: user_id=%s, session_id=%s, correct=%d/%d, score=%d, unlocked=%v",
		userID, session.ID, result.CorrectAnswers, result.TotalQuestions, result.Score, unlocked)
	return &result, nil
}

// indexAnswers rejects answers for questions outside the session and
// duplicate answers for one question.
func indexAnswers(session *models.PracticeSession, answers []models.SessionAnswer) (map[string]models.SessionAnswer, error) {
	byQuestion := make(map[string]models.SessionAnswer, len(answers))
	for _, a := range answers {
		if _, ok := session.Question(a.QuestionID); !ok {
			return nil, errors.NewInvalidStateError(fmt.Sprintf("question %s is not part of session %s", a.QuestionID, session.ID))
		}
		if _, dup := byQuestion[a.QuestionID]; dup {
			return nil, errors.NewInvalidStateError(fmt.Sprintf("question %s answered twice", a.QuestionID))
		}
		byQuestion[a.QuestionID] = a
	}
	return byQuestion, nil
}

// gradeSession decides every question. A recorded first attempt wins over the
// final answer; unanswered questions count as skipped.
func gradeSession(questions []models.PracticeQuestion, answers map[string]models.SessionAnswer, attempts map[string]models.Attempt) []graded {
	out := make([]graded, 0, len(questions))
	for _, q := range questions {
		if at, ok := attempts[q.ID]; ok {
			out = append(out, graded{question: q, result: grading.Grade(q, at.Answer), userAnswer: at.Answer})
			continue
		}
		a, ok := answers[q.ID]
		if !ok || a.Skipped {
			out = append(out, graded{question: q, result: grading.Skip(), skipped: true})
			continue
		}
		out = append(out, graded{question: q, result: grading.Grade(q, a.Answer), userAnswer: a.Answer})
	}
	return out
}

// recordSession folds the result into the user's progress and persists any
// achievements it unlocks.
func recordSession(ctx context.Context, tx repository.Store, userID string, result models.PracticeResult, day clock.Day, now time.Time) ([]string, error) {
	state, err := tx.Progress().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	state = progress.Apply(state, result, day)
	if err := tx.Progress().Save(ctx, state); err != nil {
		return nil, err
	}
	if err := tx.Progress().AddDailyAccuracy(ctx, userID, day, result.TotalQuestions, result.CorrectAnswers); err != nil {
		return nil, err
	}

	counts, err := tx.Records().CountByMastery(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked, err := tx.Progress().Achievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := progress.NewlyUnlocked(progress.Snapshot(state, counts, nil, day), unlocked)
	for _, id := range ids {
		if err := tx.Progress().Unlock(ctx, userID, id, now); err != nil {
			return nil, err
		}
	}
	return ids, nil
}
