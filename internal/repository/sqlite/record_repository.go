package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

var recordColumns = []string{
	"user_id", "word_id", "added_at", "last_review_at", "next_review_at",
	"review_count", "interval_days", "ease_factor", "mastery_level",
}

type recordRepository struct {
	db sqlx.ExtContext
}

// NewRecordRepository creates a new RecordRepository implementation
func NewRecordRepository(db sqlx.ExtContext) repository.RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Get(ctx context.Context, userID, wordID string) (*models.LearningRecord, error) {
	query, args, err := sqlBuilder.Select(recordColumns...).From("learning_records").
		Where(squirrel.Eq{"user_id": userID, "word_id": wordID}).ToSql()
	if err != nil {
		return nil, err
	}
	var rec models.LearningRecord
	if err := sqlx.GetContext(ctx, r.db, &rec, query, args...); err != nil {
		return nil, notFound(err)
	}
	if err := checkRecord(rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepository) Insert(ctx context.Context, rec models.LearningRecord) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	if err := rec.Validate(); err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT OR IGNORE INTO learning_records
    (user_id, word_id, added_at, last_review_at, next_review_at, review_count, interval_days, ease_factor, mastery_level)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.UserID, rec.WordID, dbTime(rec.AddedDate), dbTimePtr(rec.LastReviewDate), dbTime(rec.NextReviewDate),
		rec.ReviewCount, rec.IntervalDays, rec.EaseFactor, string(rec.MasteryLevel))
	if err != nil {
		log.Error("failed to insert record %s/%s: %v", rec.UserID, rec.WordID, err)
		return false, err
	}
	created, err := affected(res)
	if err == nil {
		log.Debug("record %s/%s inserted=%t", rec.UserID, rec.WordID, created)
	}
	return created, err
}

func (r *recordRepository) Upsert(ctx context.Context, rec models.LearningRecord) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	if err := rec.Validate(); err != nil {
		return err
	}
	log.Debug("upserting record: user=%s, word=%s, interval=%d, ease=%.2f, mastery=%s",
		rec.UserID, rec.WordID, rec.IntervalDays, rec.EaseFactor, rec.MasteryLevel)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO learning_records
    (user_id, word_id, added_at, last_review_at, next_review_at, review_count, interval_days, ease_factor, mastery_level)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, word_id) DO UPDATE SET
    last_review_at = excluded.last_review_at,
    next_review_at = excluded.next_review_at,
    review_count = excluded.review_count,
    interval_days = excluded.interval_days,
    ease_factor = excluded.ease_factor,
    mastery_level = excluded.mastery_level
`, rec.UserID, rec.WordID, dbTime(rec.AddedDate), dbTimePtr(rec.LastReviewDate), dbTime(rec.NextReviewDate),
		rec.ReviewCount, rec.IntervalDays, rec.EaseFactor, string(rec.MasteryLevel))
	if err != nil {
		log.Error("failed to upsert record: %v", err)
	}
	return err
}

func (r *recordRepository) DueBefore(ctx context.Context, userID string, before time.Time) ([]models.LearningRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")

	recs, err := r.list(ctx, sqlBuilder.Select(recordColumns...).From("learning_records").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Lt{"next_review_at": dbTime(before)}).
		OrderBy("next_review_at", "word_id"))
	if err != nil {
		log.Error("failed to query due records: %v", err)
		return nil, err
	}
	log.Debug("found %d records due before %s for %s", len(recs), before.Format(time.RFC3339), userID)
	return recs, nil
}

func (r *recordRepository) Schedule(ctx context.Context, userID string) ([]models.LearningRecord, error) {
	return r.list(ctx, sqlBuilder.Select(recordColumns...).From("learning_records").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("next_review_at", "word_id"))
}

func (r *recordRepository) list(ctx context.Context, b squirrel.SelectBuilder) ([]models.LearningRecord, error) {
	var recs []models.LearningRecord
	if err := selectBuilt(ctx, r.db, &recs, b); err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if err := checkRecord(rec); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func (r *recordRepository) Delete(ctx context.Context, userID, wordID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM learning_records WHERE user_id = ? AND word_id = ?`, userID, wordID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

func (r *recordRepository) CountByMastery(ctx context.Context, userID string) (models.MasteryCounts, error) {
	var rows []struct {
		Level string `db:"mastery_level"`
		N     int    `db:"n"`
	}
	err := selectBuilt(ctx, r.db, &rows, sqlBuilder.Select("mastery_level", "COUNT(*) AS n").
		From("learning_records").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("mastery_level"))
	if err != nil {
		return models.MasteryCounts{}, err
	}

	var counts models.MasteryCounts
	for _, row := range rows {
		level, err := models.ParseMasteryLevel(row.Level)
		if err != nil {
			return models.MasteryCounts{}, err
		}
		counts.Add(level, row.N)
	}
	return counts, nil
}

func (r *recordRepository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM learning_records WHERE user_id = ?`, userID)
	return n, err
}

// checkRecord rejects rows that would not have passed validation on write.
func checkRecord(rec models.LearningRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("stored %w", err)
	}
	return nil
}
