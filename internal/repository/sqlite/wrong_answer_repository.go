package sqlite

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

var wrongAnswerColumns = []string{"user_id", "word_id", "user_wrong_answer", "review_count", "added_at"}

type wrongAnswerRepository struct {
	db sqlx.ExtContext
}

// NewWrongAnswerRepository creates a new WrongAnswerRepository implementation
func NewWrongAnswerRepository(db sqlx.ExtContext) repository.WrongAnswerRepository {
	return &wrongAnswerRepository{db: db}
}

const nextPosition = `(SELECT COALESCE(MAX(position), 0) + 1 FROM wrong_answers WHERE user_id = ?)`

func (r *wrongAnswerRepository) Push(ctx context.Context, e models.WrongAnswerEntry) error {
	log := logger.FromContext(ctx).WithPrefix("wrong_answer_repo")
	log.Debug("pushing wrong answer: user=%s, word=%s", e.UserID, e.WordID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO wrong_answers (user_id, word_id, position, user_wrong_answer, review_count, added_at)
VALUES (?, ?, `+nextPosition+`, ?, 0, ?)
ON CONFLICT(user_id, word_id) DO UPDATE SET
    user_wrong_answer = excluded.user_wrong_answer,
    review_count = wrong_answers.review_count + 1
`, e.UserID, e.WordID, e.UserID, e.UserWrongAnswer, dbTime(e.AddedAt))
	if err != nil {
		log.Error("failed to push wrong answer: %v", err)
	}
	return err
}

func (r *wrongAnswerRepository) List(ctx context.Context, userID string) ([]models.WrongAnswerEntry, error) {
	var entries []models.WrongAnswerEntry
	err := selectBuilt(ctx, r.db, &entries, sqlBuilder.Select(wrongAnswerColumns...).
		From("wrong_answers").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("position"))
	if err != nil {
		logger.FromContext(ctx).WithPrefix("wrong_answer_repo").Error("failed to list queue for %s: %v", userID, err)
		return nil, err
	}
	return entries, nil
}

func (r *wrongAnswerRepository) Peek(ctx context.Context, userID string) (*models.WrongAnswerEntry, error) {
	return r.one(ctx, sqlBuilder.Select(wrongAnswerColumns...).
		From("wrong_answers").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("position").
		Limit(1))
}

func (r *wrongAnswerRepository) Get(ctx context.Context, userID, wordID string) (*models.WrongAnswerEntry, error) {
	return r.one(ctx, sqlBuilder.Select(wrongAnswerColumns...).
		From("wrong_answers").
		Where(squirrel.Eq{"user_id": userID, "word_id": wordID}))
}

func (r *wrongAnswerRepository) one(ctx context.Context, b squirrel.SelectBuilder) (*models.WrongAnswerEntry, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	var e models.WrongAnswerEntry
	if err := sqlx.GetContext(ctx, r.db, &e, query, args...); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *wrongAnswerRepository) Rotate(ctx context.Context, userID, wordID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE wrong_answers SET position = `+nextPosition+` WHERE user_id = ? AND word_id = ?`,
		userID, userID, wordID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *wrongAnswerRepository) Increment(ctx context.Context, userID, wordID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE wrong_answers SET review_count = review_count + 1 WHERE user_id = ? AND word_id = ?`,
		userID, wordID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *wrongAnswerRepository) Resolve(ctx context.Context, userID, wordID string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("wrong_answer_repo")

	res, err := r.db.ExecContext(ctx, `DELETE FROM wrong_answers WHERE user_id = ? AND word_id = ?`, userID, wordID)
	if err != nil {
		log.Error("failed to resolve wrong answer: %v", err)
		return false, err
	}
	removed, err := affected(res)
	if err == nil {
		log.Debug("resolve %s/%s removed=%t", userID, wordID, removed)
	}
	return removed, err
}
