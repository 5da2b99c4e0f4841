package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/db"
	"github.com/devlingo/devlingo/internal/domain"
)

// currentSessionID keys the one session row a device can hold.
const currentSessionID = "current"

type SQLiteAuthSessionRepo struct {
	db db.DBTX
}

func NewSQLiteAuthSessionRepo(conn db.DBTX) *SQLiteAuthSessionRepo {
	return &SQLiteAuthSessionRepo{db: conn}
}

func (r *SQLiteAuthSessionRepo) Get(ctx context.Context) (*domain.AuthSession, error) {
	query := `SELECT user_id, token, created_at, expires_at FROM auth_sessions WHERE id = ?`
	var s domain.AuthSession
	var createdAt, expiresAt string
	err := r.db.QueryRowContext(ctx, query, currentSessionID).Scan(&s.UserID, &s.Token, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auth session: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning auth session: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}
	return &s, nil
}

// Save replaces the current session.
func (r *SQLiteAuthSessionRepo) Save(ctx context.Context, s *domain.AuthSession) error {
	query := `INSERT INTO auth_sessions (id, user_id, token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			token = excluded.token,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`
	_, err := r.db.ExecContext(ctx, query,
		currentSessionID,
		s.UserID,
		s.Token,
		formatTime(s.CreatedAt),
		formatTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("saving auth session: %w", err)
	}
	return nil
}

func (r *SQLiteAuthSessionRepo) Delete(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = ?`, currentSessionID); err != nil {
		return fmt.Errorf("deleting auth session: %w", err)
	}
	return nil
}

type SQLiteSettingsRepo struct {
	db db.DBTX
}

func NewSQLiteSettingsRepo(conn db.DBTX) *SQLiteSettingsRepo {
	return &SQLiteSettingsRepo{db: conn}
}

func (r *SQLiteSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("setting %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteSettingsRepo) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}
