package importer

import (
	"testing"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MinimalCourse(t *testing.T) {
	course, err := Convert(validMinimalSchema())
	require.NoError(t, err)

	require.Len(t, course.Units, 1)
	unit := course.Units[0]
	assert.NotEmpty(t, unit.ID)
	assert.Equal(t, "Basics", unit.Title)
	assert.False(t, unit.CreatedAt.IsZero())

	require.Len(t, unit.Lessons, 1)
	lesson := unit.Lessons[0]
	assert.NotEmpty(t, lesson.ID)
	assert.Equal(t, unit.ID, lesson.UnitID)
	assert.Equal(t, domain.DefaultLessonXP, lesson.XPReward)
	assert.Equal(t, 1, lesson.Position)

	require.Len(t, course.Questions, 1)
	q := course.Questions[0]
	assert.Equal(t, lesson.ID, q.LessonID)
	assert.Equal(t, 1, q.Position)
	require.Len(t, q.Options, 2)
	assert.True(t, q.Options[0].IsCorrect)
	assert.Equal(t, q.ID, q.Options[0].QuestionID)
	assert.Equal(t, []int{1, 2}, []int{q.Options[0].Position, q.Options[1].Position})

	assert.Equal(t, 1, course.LessonCount())
	assert.Equal(t, 2, course.OptionCount())
}

func TestConvert_ExplicitPositionsAndXP(t *testing.T) {
	schema := &CourseSchema{Units: []UnitImport{{
		Ref: "u", Title: "U",
		Lessons: []LessonImport{
			{Ref: "a", Title: "A", XP: ptrInt(25), Position: 5},
			{Ref: "b", Title: "B", XP: ptrInt(0)},
		},
	}}}

	course, err := Convert(schema)
	require.NoError(t, err)

	lessons := course.Units[0].Lessons
	assert.Equal(t, 25, lessons[0].XPReward)
	assert.Equal(t, 5, lessons[0].Position)
	assert.Equal(t, domain.DefaultLessonXP, lessons[1].XPReward, "zero falls back to the default reward")
	assert.Equal(t, 2, lessons[1].Position)
	assert.Empty(t, course.Questions)
}

func TestConvert_UniqueIDs(t *testing.T) {
	schema := validMinimalSchema()
	schema.Units = append(schema.Units, UnitImport{Ref: "loops", Title: "Loops", Lessons: []LessonImport{
		{Ref: "for", Title: "For", Questions: []QuestionImport{{Text: "Q", Options: twoOptions()}}},
	}})

	course, err := Convert(schema)
	require.NoError(t, err)

	seen := map[string]bool{}
	add := func(id string) {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	for _, u := range course.Units {
		add(u.ID)
		for _, l := range u.Lessons {
			add(l.ID)
		}
	}
	for _, q := range course.Questions {
		add(q.ID)
		for _, o := range q.Options {
			add(o.ID)
		}
	}
	assert.Len(t, seen, 2+2+2+4)
}

func TestConvert_Nil(t *testing.T) {
	_, err := Convert(nil)
	assert.Error(t, err)
}
