package repository

import (
	"context"

	"github.com/devlingo/devlingo/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	IncrementTotalXP(ctx context.Context, userID string, delta int) error
}

// AuthSessionRepo stores the single signed-in session of this device.
type AuthSessionRepo interface {
	Get(ctx context.Context) (*domain.AuthSession, error)
	Save(ctx context.Context, s *domain.AuthSession) error
	Delete(ctx context.Context) error
}

type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type UnitRepo interface {
	Create(ctx context.Context, u *domain.RawUnit) error
	// ListWithLessons returns every unit ordered by creation time, each with its
	// lessons ordered by position.
	ListWithLessons(ctx context.Context) ([]domain.RawUnit, error)
}

type LessonRepo interface {
	Create(ctx context.Context, l *domain.RawLesson) error
	// CreateQuestion inserts a question together with its options.
	CreateQuestion(ctx context.Context, q *domain.Question) error
	// GetDetail returns a lesson with questions and options sorted by position.
	// Completed is always false; callers apply the user's progress.
	GetDetail(ctx context.Context, id string) (*domain.Lesson, error)
	ListByUnit(ctx context.Context, unitID string) ([]domain.RawLesson, error)
}

type ProgressRepo interface {
	CompletedLessonIDs(ctx context.Context, userID string) (domain.IDSet, error)
	CompletedUnitIDs(ctx context.Context, userID string) (domain.IDSet, error)
	// UpsertLessonCompletion creates the completion record or updates the existing one.
	UpsertLessonCompletion(ctx context.Context, c *domain.LessonCompletion) error
	GetLessonCompletion(ctx context.Context, userID, lessonID string) (*domain.LessonCompletion, error)
	MarkUnitCompleted(ctx context.Context, c *domain.UnitCompletion) error
	// SumXP totals xp_earned over the user's completed lessons.
	SumXP(ctx context.Context, userID string) (int, error)
}

type AttemptRepo interface {
	Create(ctx context.Context, a *domain.Attempt) error
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*domain.Attempt, error)
}
