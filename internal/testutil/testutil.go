package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/db"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/srs"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// It holds a single connection: every caller shares the same in-memory
// database, and a transaction blocks all other use until it finishes.
func NewTestDB(t *testing.T) *sqlx.DB {
	conn, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	require.NoError(t, db.Migrate(context.Background(), conn))
	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Epoch is a fixed instant tests build their timelines from.
var Epoch = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

// SeedUser inserts a user in the given zone.
func SeedUser(t *testing.T, conn *sqlx.DB, userID, timezone string) {
	_, err := conn.Exec(`INSERT INTO users (id, timezone, created_at) VALUES (?, ?, ?)`, userID, timezone, Epoch)
	require.NoError(t, err)
}

// SeedWord inserts a word and its initial learning record, due at addedAt.
func SeedWord(t *testing.T, conn *sqlx.DB, userID, wordID string, addedAt time.Time) models.LearningRecord {
	_, err := conn.Exec(`INSERT INTO words (user_id, word_id, term, translation, example, audio_url, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, wordID, wordID, "tr-"+wordID, "I see a "+wordID+" here.", "tts://"+wordID, addedAt.UTC())
	require.NoError(t, err)

	rec := srs.NewRecord(userID, wordID, addedAt.UTC().Truncate(time.Second), srs.DefaultParams())
	_, err = conn.Exec(`INSERT INTO learning_records (user_id, word_id, added_at, next_review_at, review_count, interval_days, ease_factor, mastery_level) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.WordID, rec.AddedDate, rec.NextReviewDate, rec.ReviewCount, rec.IntervalDays, rec.EaseFactor, string(rec.MasteryLevel))
	require.NoError(t, err)
	return rec
}
