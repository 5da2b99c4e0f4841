package repository

import (
	"context"
	"testing"

	"github.com/devlingo/devlingo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCascadeDelete_UnitToLessonsAndQuestions(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	unit := testutil.NewTestUnit("Basics", testutil.WithLessons(testutil.NewTestLesson("One")))
	testutil.SeedCourse(t, database, 2, unit)

	_, err := database.Exec(`DELETE FROM units WHERE id = ?`, unit.ID)
	require.NoError(t, err)

	_, err = NewSQLiteLessonRepo(database).GetDetail(ctx, unit.Lessons[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, table := range []string{"lesson_questions", "lesson_question_options"} {
		var n int
		require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, "%s should be cascade-deleted", table)
	}
}

func TestCascadeDelete_UserToProgress(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser("Ana")
	testutil.SeedUser(t, database, user)
	unit := testutil.NewTestUnit("Basics", testutil.WithLessons(testutil.NewTestLesson("One")))
	testutil.SeedCourse(t, database, 1, unit)
	testutil.SeedLessonCompletion(t, database, user.ID, unit.Lessons[0].ID, 10)

	_, err := database.Exec(`DELETE FROM users WHERE id = ?`, user.ID)
	require.NoError(t, err)

	ids, err := NewSQLiteProgressRepo(database).CompletedLessonIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
