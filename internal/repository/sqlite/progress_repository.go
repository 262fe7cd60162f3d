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

type progressRepository struct {
	db sqlx.ExtContext
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db sqlx.ExtContext) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, userID string) (models.ProgressState, error) {
	var st models.ProgressState
	err := sqlx.GetContext(ctx, r.db, &st, `
SELECT user_id, current_streak, longest_streak, study_days, total_sessions, total_reviews,
       total_questions, total_correct, perfect_sessions, last_practice_date
FROM progress_stats WHERE user_id = ?
`, userID)
	if err := notFound(err); err == repository.ErrNotFound {
		return models.ProgressState{UserID: userID}, nil
	} else if err != nil {
		logger.FromContext(ctx).WithPrefix("progress_repo").Error("failed to load progress for %s: %v", userID, err)
		return models.ProgressState{}, err
	}
	return st, nil
}

func (r *progressRepository) Save(ctx context.Context, st models.ProgressState) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving progress: user=%s, streak=%d, sessions=%d", st.UserID, st.CurrentStreak, st.TotalSessions)

	_, err := sqlx.NamedExecContext(ctx, r.db, `
INSERT INTO progress_stats
    (user_id, current_streak, longest_streak, study_days, total_sessions, total_reviews,
     total_questions, total_correct, perfect_sessions, last_practice_date)
VALUES
    (:user_id, :current_streak, :longest_streak, :study_days, :total_sessions, :total_reviews,
     :total_questions, :total_correct, :perfect_sessions, :last_practice_date)
ON CONFLICT(user_id) DO UPDATE SET
    current_streak = excluded.current_streak,
    longest_streak = excluded.longest_streak,
    study_days = excluded.study_days,
    total_sessions = excluded.total_sessions,
    total_reviews = excluded.total_reviews,
    total_questions = excluded.total_questions,
    total_correct = excluded.total_correct,
    perfect_sessions = excluded.perfect_sessions,
    last_practice_date = excluded.last_practice_date
`, st)
	if err != nil {
		log.Error("failed to save progress: %v", err)
	}
	return err
}

func (r *progressRepository) AddDailyAccuracy(ctx context.Context, userID string, day clock.Day, questions, correct int) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO daily_accuracy (user_id, day, questions, correct) VALUES (?, ?, ?, ?)
ON CONFLICT(user_id, day) DO UPDATE SET
    questions = daily_accuracy.questions + excluded.questions,
    correct = daily_accuracy.correct + excluded.correct
`, userID, day, questions, correct)
	return err
}

func (r *progressRepository) DailyAccuracy(ctx context.Context, userID string, from, to clock.Day) ([]models.DailyAccuracy, error) {
	var days []models.DailyAccuracy
	err := selectBuilt(ctx, r.db, &days, sqlBuilder.Select("day", "questions", "correct").
		From("daily_accuracy").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"day": from}).
		Where(squirrel.LtOrEq{"day": to}).
		OrderBy("day"))
	return days, err
}

func (r *progressRepository) Achievements(ctx context.Context, userID string) (map[string]time.Time, error) {
	var rows []struct {
		ID string    `db:"achievement_id"`
		At time.Time `db:"unlocked_at"`
	}
	err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT achievement_id, unlocked_at FROM achievements WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		out[row.ID] = row.At
	}
	return out, nil
}

func (r *progressRepository) Unlock(ctx context.Context, userID, achievementID string, at time.Time) error {
	logger.FromContext(ctx).WithPrefix("progress_repo").Info("achievement unlocked: user=%s, id=%s", userID, achievementID)
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO achievements (user_id, achievement_id, unlocked_at) VALUES (?, ?, ?)`,
		userID, achievementID, dbTime(at))
	return err
}
