package sqlite

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

var wordColumns = []string{"user_id", "word_id", "term", "translation", "example", "audio_url", "created_at"}

type wordRepository struct {
	db sqlx.ExtContext
}

// NewWordRepository creates a new WordRepository implementation
func NewWordRepository(db sqlx.ExtContext) repository.WordRepository {
	return &wordRepository{db: db}
}

func (r *wordRepository) Get(ctx context.Context, userID, wordID string) (*models.Word, error) {
	query, args, err := sqlBuilder.Select(wordColumns...).From("words").
		Where(squirrel.Eq{"user_id": userID, "word_id": wordID}).ToSql()
	if err != nil {
		return nil, err
	}
	var w models.Word
	if err := sqlx.GetContext(ctx, r.db, &w, query, args...); err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *wordRepository) List(ctx context.Context, userID string) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")

	var words []models.Word
	err := selectBuilt(ctx, r.db, &words, sqlBuilder.Select(wordColumns...).From("words").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("word_id"))
	if err != nil {
		log.Error("failed to list words for %s: %v", userID, err)
		return nil, err
	}
	return words, nil
}

func (r *wordRepository) ListByIDs(ctx context.Context, userID string, wordIDs []string) (map[string]models.Word, error) {
	out := make(map[string]models.Word, len(wordIDs))
	if len(wordIDs) == 0 {
		return out, nil
	}

	var words []models.Word
	err := selectBuilt(ctx, r.db, &words, sqlBuilder.Select(wordColumns...).From("words").
		Where(squirrel.Eq{"user_id": userID, "word_id": wordIDs}))
	if err != nil {
		logger.FromContext(ctx).WithPrefix("word_repo").Error("failed to load words: %v", err)
		return nil, err
	}
	for _, w := range words {
		out[w.WordID] = w
	}
	return out, nil
}

func (r *wordRepository) Upsert(ctx context.Context, w models.Word) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("upserting word: user=%s, word=%s", w.UserID, w.WordID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO words (user_id, word_id, term, translation, example, audio_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, word_id) DO UPDATE SET
    term = excluded.term,
    translation = excluded.translation,
    example = excluded.example,
    audio_url = excluded.audio_url
`, w.UserID, w.WordID, w.Term, w.Translation, w.Example, w.AudioURL, dbTime(w.CreatedAt))
	if err != nil {
		log.Error("failed to upsert word: %v", err)
	}
	return err
}

// Delete removes the word; its record and queue entry go with it.
func (r *wordRepository) Delete(ctx context.Context, userID, wordID string) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("deleting word: user=%s, word=%s", userID, wordID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM words WHERE user_id = ? AND word_id = ?`, userID, wordID)
	if err != nil {
		log.Error("failed to delete word: %v", err)
		return err
	}
	return mustAffect(res)
}
