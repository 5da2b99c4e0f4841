package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressFixture struct {
	db      *sql.DB
	repo    *SQLiteProgressRepo
	user    *domain.User
	unit    *domain.RawUnit
	lessons []domain.RawLesson
}

func progressTestSetup(t *testing.T) progressFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	user := testutil.NewTestUser("Ana")
	testutil.SeedUser(t, database, user)
	unit := testutil.NewTestUnit("Basics", testutil.WithLessons(
		testutil.NewTestLesson("One"),
		testutil.NewTestLesson("Two"),
	))
	testutil.SeedCourse(t, database, 1, unit)
	return progressFixture{
		db:      database,
		repo:    NewSQLiteProgressRepo(database),
		user:    user,
		unit:    unit,
		lessons: unit.Lessons,
	}
}

func TestProgressRepo_UpsertLessonCompletion(t *testing.T) {
	f := progressTestSetup(t)
	ctx := context.Background()
	lessonID := f.lessons[0].ID

	require.NoError(t, f.repo.UpsertLessonCompletion(ctx, &domain.LessonCompletion{
		UserID: f.user.ID, LessonID: lessonID, IsCompleted: false,
	}))
	ids, err := f.repo.CompletedLessonIDs(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids, "incomplete records are not completions")

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.repo.UpsertLessonCompletion(ctx, &domain.LessonCompletion{
		UserID: f.user.ID, LessonID: lessonID, IsCompleted: true, XPEarned: 10, CompletedAt: at,
	}))
	require.NoError(t, f.repo.UpsertLessonCompletion(ctx, &domain.LessonCompletion{
		UserID: f.user.ID, LessonID: lessonID, IsCompleted: true, XPEarned: 10, CompletedAt: at.Add(time.Hour),
	}))

	ids, err = f.repo.CompletedLessonIDs(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, ids.Has(lessonID))
	assert.Len(t, ids, 1)

	c, err := f.repo.GetLessonCompletion(ctx, f.user.ID, lessonID)
	require.NoError(t, err)
	assert.True(t, c.IsCompleted)
	assert.True(t, c.CompletedAt.Equal(at.Add(time.Hour)))

	var rows int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM user_lessons`).Scan(&rows))
	assert.Equal(t, 1, rows, "upsert never duplicates")
}

func TestProgressRepo_GetLessonCompletion_NotFound(t *testing.T) {
	f := progressTestSetup(t)
	_, err := f.repo.GetLessonCompletion(context.Background(), f.user.ID, f.lessons[1].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressRepo_SumXP(t *testing.T) {
	f := progressTestSetup(t)
	ctx := context.Background()

	total, err := f.repo.SumXP(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	testutil.SeedLessonCompletion(t, f.db, f.user.ID, f.lessons[0].ID, 10)
	testutil.SeedLessonCompletion(t, f.db, f.user.ID, f.lessons[1].ID, 15)

	total, err = f.repo.SumXP(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, total)

	other, err := f.repo.SumXP(ctx, "someone-else")
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestProgressRepo_MarkUnitCompleted_Idempotent(t *testing.T) {
	f := progressTestSetup(t)
	ctx := context.Background()

	first := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	c := &domain.UnitCompletion{UserID: f.user.ID, UnitID: f.unit.ID, CompletedAt: first}
	require.NoError(t, f.repo.MarkUnitCompleted(ctx, c))
	c.CompletedAt = first.Add(time.Hour)
	require.NoError(t, f.repo.MarkUnitCompleted(ctx, c))

	ids, err := f.repo.CompletedUnitIDs(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, ids.Has(f.unit.ID))

	var stored string
	require.NoError(t, f.db.QueryRow(`SELECT completed_at FROM user_units`).Scan(&stored))
	assert.Equal(t, first.Format(time.RFC3339), stored)
}
