package repository

import (
	"context"
	"testing"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessonTestSetup(t *testing.T) (*SQLiteLessonRepo, domain.RawLesson) {
	t.Helper()
	database := testutil.NewTestDB(t)
	lesson := testutil.NewTestLesson("Variables", testutil.WithXPReward(0))
	unit := testutil.NewTestUnit("Basics", testutil.WithLessons(lesson))
	testutil.SeedCourse(t, database, 0, unit)
	return NewSQLiteLessonRepo(database), unit.Lessons[0]
}

func TestLessonRepo_GetDetail_SortsQuestionsAndOptions(t *testing.T) {
	repo, lesson := lessonTestSetup(t)
	ctx := context.Background()

	// Insert out of order to prove ordering comes from position.
	q3 := testutil.NewTestQuestion(lesson.ID, 3)
	q1 := testutil.NewTestQuestion(lesson.ID, 1)
	q1.Options[0].Position, q1.Options[1].Position = 2, 1
	q2 := testutil.NewTestQuestion(lesson.ID, 2)
	for _, q := range []*domain.Question{q3, q1, q2} {
		require.NoError(t, repo.CreateQuestion(ctx, q))
	}

	got, err := repo.GetDetail(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Variables", got.Title)
	assert.Equal(t, lesson.UnitID, got.UnitID)
	assert.Equal(t, domain.DefaultLessonXP, got.XP, "zero reward falls back to default")
	assert.False(t, got.Completed)

	require.Len(t, got.Questions, 3)
	for i, q := range got.Questions {
		assert.Equal(t, i+1, q.Position)
		require.Len(t, q.Options, 2)
		assert.Less(t, q.Options[0].Position, q.Options[1].Position)
	}
	assert.Equal(t, q1.ID+"-bad", got.Questions[0].Options[0].ID)
	assert.True(t, got.Questions[1].Options[0].IsCorrect)
}

func TestLessonRepo_GetDetail_NoQuestions(t *testing.T) {
	repo, lesson := lessonTestSetup(t)

	got, err := repo.GetDetail(context.Background(), lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Questions)
}

func TestLessonRepo_GetDetail_NotFound(t *testing.T) {
	repo, _ := lessonTestSetup(t)

	_, err := repo.GetDetail(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessonRepo_CreateQuestion_DuplicatePosition(t *testing.T) {
	repo, lesson := lessonTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateQuestion(ctx, testutil.NewTestQuestion(lesson.ID, 1)))
	dup := testutil.NewTestQuestion(lesson.ID, 1)
	dup.ID = "other"
	assert.ErrorIs(t, repo.CreateQuestion(ctx, dup), ErrDuplicate)
}

func TestLessonRepo_ListByUnit(t *testing.T) {
	repo, lesson := lessonTestSetup(t)

	got, err := repo.ListByUnit(context.Background(), lesson.UnitID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, lesson.ID, got[0].ID)
	assert.Equal(t, 1, got[0].Position)
}
