package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"users", "auth_sessions", "settings", "units", "lessons",
		"lesson_questions", "lesson_question_options",
		"user_lessons", "user_units", "lesson_attempts",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_users_email",
		"idx_units_created",
		"idx_lessons_unit",
		"idx_questions_lesson_position",
		"idx_options_question_position",
		"idx_attempts_user_created",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_QuestionPositionsUniquePerLesson(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO units (id, title, created_at) VALUES ('u1', 'Basics', '2025-01-01T00:00:00Z')`,
		`INSERT INTO lessons (id, unit_id, title, created_at) VALUES ('l1', 'u1', 'Vars', '2025-01-01T00:00:00Z')`,
		`INSERT INTO lesson_questions (id, lesson_id, question, position) VALUES ('q1', 'l1', 'What?', 1)`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	_, err := db.Exec(`INSERT INTO lesson_questions (id, lesson_id, question, position) VALUES ('q2', 'l1', 'Why?', 1)`)
	assert.Error(t, err, "duplicate position within a lesson must be rejected")
}

func TestMigrate_AttemptOutcomeChecked(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ('usr', 'Ana', 'a@b.co', 'x', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO units (id, title, created_at) VALUES ('u1', 'Basics', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO lessons (id, unit_id, title, created_at) VALUES ('l1', 'u1', 'Vars', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO lesson_attempts (id, user_id, lesson_id, outcome, created_at) VALUES ('a1', 'usr', 'l1', 'bogus', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "devlingo.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
