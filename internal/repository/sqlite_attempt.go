package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/db"
	"github.com/devlingo/devlingo/internal/domain"
)

type SQLiteAttemptRepo struct {
	db db.DBTX
}

func NewSQLiteAttemptRepo(conn db.DBTX) *SQLiteAttemptRepo {
	return &SQLiteAttemptRepo{db: conn}
}

func (r *SQLiteAttemptRepo) Create(ctx context.Context, a *domain.Attempt) error {
	query := `INSERT INTO lesson_attempts (id, user_id, lesson_id, outcome, correct, incorrect, accuracy, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.LessonID,
		string(a.Outcome),
		a.Correct,
		a.Incorrect,
		a.Accuracy,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting lesson attempt: %w", err)
	}
	return nil
}

// ListRecentByUser returns the user's newest attempts first. limit <= 0 means no limit.
func (r *SQLiteAttemptRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*domain.Attempt, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, user_id, lesson_id, outcome, correct, incorrect, accuracy, created_at
		FROM lesson_attempts WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*domain.Attempt
	for rows.Next() {
		var a domain.Attempt
		var outcome, createdAt string
		if err := rows.Scan(&a.ID, &a.UserID, &a.LessonID, &outcome, &a.Correct, &a.Incorrect, &a.Accuracy, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning attempt row: %w", err)
		}
		a.Outcome = domain.AttemptOutcome(outcome)
		if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing attempt created_at: %w", err)
		}
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attempts: %w", err)
	}
	return attempts, nil
}
