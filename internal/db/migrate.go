package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		total_xp      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`,

	// One row per device: the signed-in session, if any.
	`CREATE TABLE IF NOT EXISTS auth_sessions (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token      TEXT NOT NULL,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS units (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_units_created ON units(created_at)`,

	`CREATE TABLE IF NOT EXISTS lessons (
		id          TEXT PRIMARY KEY,
		unit_id     TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		xp_reward   INTEGER NOT NULL DEFAULT 10,
		position    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lessons_unit ON lessons(unit_id)`,

	`CREATE TABLE IF NOT EXISTS lesson_questions (
		id        TEXT PRIMARY KEY,
		lesson_id TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		question  TEXT NOT NULL,
		position  INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_questions_lesson_position ON lesson_questions(lesson_id, position)`,

	`CREATE TABLE IF NOT EXISTS lesson_question_options (
		id          TEXT PRIMARY KEY,
		question_id TEXT NOT NULL REFERENCES lesson_questions(id) ON DELETE CASCADE,
		option_text TEXT NOT NULL,
		is_correct  INTEGER NOT NULL DEFAULT 0,
		position    INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_options_question_position ON lesson_question_options(question_id, position)`,

	`CREATE TABLE IF NOT EXISTS user_lessons (
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		lesson_id    TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		is_completed INTEGER NOT NULL DEFAULT 0,
		xp_earned    INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		PRIMARY KEY (user_id, lesson_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_units (
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		unit_id      TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
		completed_at TEXT NOT NULL,
		PRIMARY KEY (user_id, unit_id)
	)`,

	`CREATE TABLE IF NOT EXISTS lesson_attempts (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		lesson_id  TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		outcome    TEXT NOT NULL CHECK(outcome IN ('success','result','quit')),
		correct    INTEGER NOT NULL DEFAULT 0,
		incorrect  INTEGER NOT NULL DEFAULT 0,
		accuracy   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user_created ON lesson_attempts(user_id, created_at)`,
}
