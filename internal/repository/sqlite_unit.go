package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/db"
	"github.com/devlingo/devlingo/internal/domain"
)

type SQLiteUnitRepo struct {
	db db.DBTX
}

func NewSQLiteUnitRepo(conn db.DBTX) *SQLiteUnitRepo {
	return &SQLiteUnitRepo{db: conn}
}

// Create inserts the unit row only; u.Lessons is ignored.
func (r *SQLiteUnitRepo) Create(ctx context.Context, u *domain.RawUnit) error {
	query := `INSERT INTO units (id, title, description, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Title, u.Description, formatTime(u.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("unit %s: %w", u.ID, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("inserting unit: %w", err)
	}
	return nil
}

func (r *SQLiteUnitRepo) ListWithLessons(ctx context.Context) ([]domain.RawUnit, error) {
	units, err := r.listUnits(ctx)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return units, nil
	}

	query := `SELECT id, unit_id, title, description, xp_reward, position
		FROM lessons ORDER BY unit_id, position, created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	lessons, err := scanRawLessons(rows)
	if err != nil {
		return nil, err
	}

	byUnit := make(map[string][]domain.RawLesson, len(units))
	for _, l := range lessons {
		byUnit[l.UnitID] = append(byUnit[l.UnitID], l)
	}
	for i := range units {
		units[i].Lessons = byUnit[units[i].ID]
	}
	return units, nil
}

func (r *SQLiteUnitRepo) listUnits(ctx context.Context) ([]domain.RawUnit, error) {
	query := `SELECT id, title, description, created_at FROM units ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	defer rows.Close()

	units := []domain.RawUnit{}
	for rows.Next() {
		var u domain.RawUnit
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Title, &u.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning unit row: %w", err)
		}
		if u.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing unit created_at: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating units: %w", err)
	}
	return units, nil
}
