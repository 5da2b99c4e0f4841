package service

import (
	"context"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/importer"
)

// CurrentUser resolves the signed-in user. auth.Context implements it.
type CurrentUser interface {
	CurrentUser(ctx context.Context) (string, bool)
}

// UnitService builds the learner's unit path. It never fails outward: when
// nobody is signed in or a read fails, the path is empty and the cause is logged.
type UnitService interface {
	ListUnits(ctx context.Context) []domain.Unit
}

// LessonService reads a single lesson for the quiz screen.
type LessonService interface {
	// GetLesson returns the lesson with questions and options ordered by
	// position and the user's own completion flag, or nil when it cannot be read.
	GetLesson(ctx context.Context, lessonID string) *domain.Lesson
}

// ProgressService persists the outcome of lesson attempts.
type ProgressService interface {
	// CompleteLesson records a successful run. It reports false only when the
	// completion record itself could not be written; the XP total and unit
	// completion are best effort.
	CompleteLesson(ctx context.Context, lessonID string, xpEarned int) bool
	// RecordAttempt stores the summary of a finished attempt of any outcome.
	RecordAttempt(ctx context.Context, summary domain.AttemptSummary) bool
	// History lists the user's attempts, newest first. limit <= 0 returns all.
	History(ctx context.Context, limit int) ([]*domain.Attempt, error)
}

type ImportService interface {
	ImportCourse(ctx context.Context, filePath string) (*ImportResult, error)
	ImportCourseFromSchema(ctx context.Context, schema *importer.CourseSchema) (*ImportResult, error)
}

// ImportResult summarizes what an import created.
type ImportResult struct {
	UnitCount     int
	LessonCount   int
	QuestionCount int
	OptionCount   int
}
