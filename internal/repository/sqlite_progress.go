package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devlingo/devlingo/internal/db"
	"github.com/devlingo/devlingo/internal/domain"
)

type SQLiteProgressRepo struct {
	db db.DBTX
}

func NewSQLiteProgressRepo(conn db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: conn}
}

func (r *SQLiteProgressRepo) CompletedLessonIDs(ctx context.Context, userID string) (domain.IDSet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT lesson_id FROM user_lessons WHERE user_id = ? AND is_completed = 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing completed lessons: %w", err)
	}
	return scanIDSet(rows)
}

func (r *SQLiteProgressRepo) CompletedUnitIDs(ctx context.Context, userID string) (domain.IDSet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT unit_id FROM user_units WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing completed units: %w", err)
	}
	return scanIDSet(rows)
}

func (r *SQLiteProgressRepo) UpsertLessonCompletion(ctx context.Context, c *domain.LessonCompletion) error {
	query := `INSERT INTO user_lessons (user_id, lesson_id, is_completed, xp_earned, completed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, lesson_id) DO UPDATE SET
			is_completed = excluded.is_completed,
			xp_earned = excluded.xp_earned,
			completed_at = excluded.completed_at`
	_, err := r.db.ExecContext(ctx, query,
		c.UserID,
		c.LessonID,
		boolToInt(c.IsCompleted),
		c.XPEarned,
		nullableTime(c.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting lesson completion: %w", err)
	}
	return nil
}

// MarkUnitCompleted records unit completion. An existing record keeps its original timestamp.
func (r *SQLiteProgressRepo) MarkUnitCompleted(ctx context.Context, c *domain.UnitCompletion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_units (user_id, unit_id, completed_at) VALUES (?, ?, ?)`,
		c.UserID, c.UnitID, formatTime(c.CompletedAt))
	if err != nil {
		return fmt.Errorf("marking unit completed: %w", err)
	}
	return nil
}

func (r *SQLiteProgressRepo) SumXP(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(xp_earned), 0) FROM user_lessons WHERE user_id = ? AND is_completed = 1`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing xp: %w", err)
	}
	return total, nil
}

// GetLessonCompletion returns the user's record for one lesson.
func (r *SQLiteProgressRepo) GetLessonCompletion(ctx context.Context, userID, lessonID string) (*domain.LessonCompletion, error) {
	var c domain.LessonCompletion
	var completed int
	var completedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, lesson_id, is_completed, xp_earned, completed_at FROM user_lessons WHERE user_id = ? AND lesson_id = ?`,
		userID, lessonID,
	).Scan(&c.UserID, &c.LessonID, &completed, &c.XPEarned, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson completion: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning lesson completion: %w", err)
	}
	c.IsCompleted = intToBool(completed)
	c.CompletedAt = parseNullableTime(completedAt)
	return &c, nil
}
