package sqlite

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type sessionRow struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	TaskDate    clock.Day  `db:"task_date"`
	Status      string     `db:"status"`
	StartedAt   time.Time  `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

type questionRow struct {
	ID            string `db:"id"`
	WordID        string `db:"word_id"`
	Type          string `db:"type"`
	Prompt        string `db:"prompt"`
	CorrectAnswer string `db:"correct_answer"`
	Options       string `db:"options"`
	AudioURL      string `db:"audio_url"`
}

type resultRow struct {
	SessionID       string    `db:"session_id"`
	UserID          string    `db:"user_id"`
	TotalQuestions  int       `db:"total_questions"`
	CorrectAnswers  int       `db:"correct_answers"`
	Accuracy        float64   `db:"accuracy"`
	Score           int       `db:"score"`
	DurationSeconds int       `db:"duration_seconds"`
	Incorrect       string    `db:"incorrect"`
	CompletedAt     time.Time `db:"completed_at"`
}

type sessionRepository struct {
	db sqlx.ExtContext
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db sqlx.ExtContext) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Insert stores the session with its frozen question set. Callers run it
// inside a transaction so the session is never visible half-written.
func (r *sessionRepository) Insert(ctx context.Context, s models.PracticeSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, user=%s, questions=%d", s.ID, s.UserID, len(s.Questions))

	_, err := r.db.ExecContext(ctx, `
INSERT INTO practice_sessions (id, user_id, task_date, status, started_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?)
`, s.ID, s.UserID, s.TaskDate, string(s.Status), dbTime(s.StartedAt), dbTimePtr(s.CompletedAt))
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return err
	}

	for i, q := range s.Questions {
		options := q.Options
		if options == nil {
			options = []models.Option{}
		}
		opts, err := toJSON(options)
		if err != nil {
			return err
		}
		_, err = r.db.ExecContext(ctx, `
INSERT INTO session_questions (id, session_id, position, word_id, type, prompt, correct_answer, options, audio_url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, q.ID, s.ID, i, q.WordID, string(q.Type), q.Prompt, q.CorrectAnswer, opts, q.AudioURL)
		if err != nil {
			log.Error("failed to insert question %s: %v", q.ID, err)
			return err
		}
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, userID, sessionID string) (*models.PracticeSession, error) {
	query, args, err := sqlBuilder.Select("id", "user_id", "task_date", "status", "started_at", "completed_at").
		From("practice_sessions").
		Where(squirrel.Eq{"id": sessionID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var row sessionRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return nil, notFound(err)
	}
	return r.hydrate(ctx, row)
}

func (r *sessionRepository) FindByQuestion(ctx context.Context, userID, questionID string) (*models.PracticeSession, error) {
	var row sessionRow
	err := sqlx.GetContext(ctx, r.db, &row, `
SELECT s.id, s.user_id, s.task_date, s.status, s.started_at, s.completed_at
FROM practice_sessions s
JOIN session_questions q ON q.session_id = s.id
WHERE q.id = ? AND s.user_id = ?
`, questionID, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return r.hydrate(ctx, row)
}

func (r *sessionRepository) hydrate(ctx context.Context, row sessionRow) (*models.PracticeSession, error) {
	status, err := models.ParseSessionStatus(row.Status)
	if err != nil {
		return nil, err
	}

	var rows []questionRow
	err = selectBuilt(ctx, r.db, &rows, sqlBuilder.
		Select("id", "word_id", "type", "prompt", "correct_answer", "options", "audio_url").
		From("session_questions").
		Where(squirrel.Eq{"session_id": row.ID}).
		OrderBy("position"))
	if err != nil {
		return nil, err
	}

	s := &models.PracticeSession{
		ID:          row.ID,
		UserID:      row.UserID,
		TaskDate:    row.TaskDate,
		Status:      status,
		StartedAt:   row.StartedAt,
		CompletedAt: row.CompletedAt,
		Questions:   make([]models.PracticeQuestion, 0, len(rows)),
	}
	for _, qr := range rows {
		qt, err := models.ParseQuestionType(qr.Type)
		if err != nil {
			return nil, err
		}
		q := models.PracticeQuestion{
			ID:            qr.ID,
			WordID:        qr.WordID,
			Type:          qt,
			Prompt:        qr.Prompt,
			CorrectAnswer: qr.CorrectAnswer,
			AudioURL:      qr.AudioURL,
		}
		if err := fromJSON(qr.Options, &q.Options); err != nil {
			return nil, err
		}
		if len(q.Options) == 0 {
			q.Options = nil
		}
		s.Questions = append(s.Questions, q)
	}
	return s, nil
}

func (r *sessionRepository) RecordAttempt(ctx context.Context, a models.Attempt) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO session_attempts (session_id, question_id, answer, correct, submitted_at)
VALUES (?, ?, ?, ?, ?)
`, a.SessionID, a.QuestionID, a.Answer, a.Correct, dbTime(a.SubmittedAt))
	if err != nil {
		logger.FromContext(ctx).WithPrefix("session_repo").Error("failed to record attempt: %v", err)
		return false, err
	}
	return affected(res)
}

func (r *sessionRepository) Attempts(ctx context.Context, sessionID string) (map[string]models.Attempt, error) {
	var attempts []models.Attempt
	err := selectBuilt(ctx, r.db, &attempts, sqlBuilder.
		Select("session_id", "question_id", "answer", "correct", "submitted_at").
		From("session_attempts").
		Where(squirrel.Eq{"session_id": sessionID}))
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Attempt, len(attempts))
	for _, a := range attempts {
		out[a.QuestionID] = a
	}
	return out, nil
}

func (r *sessionRepository) Complete(ctx context.Context, sessionID string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE practice_sessions SET status = ?, completed_at = ?
WHERE id = ? AND status = ?
`, string(models.SessionCompleted), dbTime(at), sessionID, string(models.SessionActive))
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *sessionRepository) InsertResult(ctx context.Context, res models.PracticeResult, day clock.Day) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	incorrect := res.Incorrect
	if incorrect == nil {
		incorrect = []models.IncorrectAnswer{}
	}
	inc, err := toJSON(incorrect)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO practice_results
    (session_id, user_id, day, total_questions, correct_answers, accuracy, score, duration_seconds, incorrect, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, res.SessionID, res.UserID, day, res.TotalQuestions, res.CorrectAnswers, res.Accuracy, res.Score,
		res.DurationSeconds, inc, dbTime(res.CompletedAt))
	if err != nil {
		log.Error("failed to insert result for session %s: %v", res.SessionID, err)
	}
	return err
}

func (r *sessionRepository) GetResult(ctx context.Context, userID, sessionID string) (*models.PracticeResult, error) {
	var row resultRow
	err := sqlx.GetContext(ctx, r.db, &row, `
SELECT session_id, user_id, total_questions, correct_answers, accuracy, score, duration_seconds, incorrect, completed_at
FROM practice_results WHERE session_id = ? AND user_id = ?
`, sessionID, userID)
	if err != nil {
		return nil, notFound(err)
	}
	out := &models.PracticeResult{
		SessionID:       row.SessionID,
		UserID:          row.UserID,
		TotalQuestions:  row.TotalQuestions,
		CorrectAnswers:  row.CorrectAnswers,
		Accuracy:        row.Accuracy,
		Score:           row.Score,
		DurationSeconds: row.DurationSeconds,
		CompletedAt:     row.CompletedAt,
	}
	if err := fromJSON(row.Incorrect, &out.Incorrect); err != nil {
		return nil, err
	}
	return out, nil
}
