package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/wordflash/internal/clock"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type taskRow struct {
	UserID           string    `db:"user_id"`
	Day              clock.Day `db:"day"`
	WordIDs          string    `db:"word_ids"`
	QuestionTypes    string    `db:"question_types"`
	WordsCount       int       `db:"words_count"`
	EstimatedMinutes int       `db:"estimated_minutes"`
	CreatedAt        time.Time `db:"created_at"`
}

type taskRepository struct {
	db sqlx.ExtContext
}

// NewTaskRepository creates a new TaskRepository implementation
func NewTaskRepository(db sqlx.ExtContext) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Get(ctx context.Context, userID string, day clock.Day) (*models.DailyTask, error) {
	var row taskRow
	err := sqlx.GetContext(ctx, r.db, &row, `
SELECT user_id, day, word_ids, question_types, words_count, estimated_minutes, created_at
FROM daily_tasks WHERE user_id = ? AND day = ?
`, userID, day)
	if err != nil {
		return nil, notFound(err)
	}

	task := models.DailyTask{
		UserID:           row.UserID,
		Date:             row.Day,
		WordsCount:       row.WordsCount,
		EstimatedMinutes: row.EstimatedMinutes,
		CreatedAt:        row.CreatedAt,
	}
	if err := fromJSON(row.WordIDs, &task.WordIDs); err != nil {
		return nil, err
	}
	var types []string
	if err := fromJSON(row.QuestionTypes, &types); err != nil {
		return nil, err
	}
	for _, t := range types {
		qt, err := models.ParseQuestionType(t)
		if err != nil {
			return nil, err
		}
		task.Types = append(task.Types, qt)
	}
	if task.WordIDs == nil {
		task.WordIDs = []string{}
	}
	return &task, nil
}

func (r *taskRepository) Insert(ctx context.Context, task models.DailyTask) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")

	wordIDs := task.WordIDs
	if wordIDs == nil {
		wordIDs = []string{}
	}
	ids, err := toJSON(wordIDs)
	if err != nil {
		return false, err
	}
	types := task.Types
	if types == nil {
		types = []models.QuestionType{}
	}
	typesJSON, err := toJSON(types)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO daily_tasks (user_id, day, word_ids, question_types, words_count, estimated_minutes, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, task.UserID, task.Date, ids, typesJSON, task.WordsCount, task.EstimatedMinutes, dbTime(task.CreatedAt))
	if err != nil {
		log.Error("failed to insert task %s/%s: %v", task.UserID, task.Date, err)
		return false, err
	}
	created, err := affected(res)
	if err == nil {
		log.Debug("task %s/%s stored=%t words=%d", task.UserID, task.Date, created, task.WordsCount)
	}
	return created, err
}
