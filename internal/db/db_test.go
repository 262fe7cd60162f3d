package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/db"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:x.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", db.DSN("file:x.db"))
	assert.Equal(t, "file:x.db?mode=rwc&_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", db.DSN("file:x.db?mode=rwc"))
}

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordflash.db")

	conn, err := db.Open(path)
	require.NoError(t, err)

	versions, err := db.Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, versions)

	var applied int
	require.NoError(t, conn.Get(&applied, `SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, len(versions), applied)

	// re-running is a no-op
	require.NoError(t, db.Migrate(context.Background(), conn.DB))
	require.NoError(t, conn.Get(&applied, `SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, len(versions), applied)

	var fk int
	require.NoError(t, conn.Get(&fk, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, fk)

	require.NoError(t, conn.Close())
}
