package importer

import (
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/google/uuid"
)

// Course holds the records generated from a course file, in insertion order.
type Course struct {
	Units     []*domain.RawUnit
	Questions []*domain.Question
}

func (c *Course) LessonCount() int {
	n := 0
	for _, u := range c.Units {
		n += len(u.Lessons)
	}
	return n
}

func (c *Course) OptionCount() int {
	n := 0
	for _, q := range c.Questions {
		n += len(q.Options)
	}
	return n
}

// Convert transforms a validated CourseSchema into domain records ready for
// persistence. Call ValidateCourseSchema first; Convert assumes the schema is valid.
func Convert(schema *CourseSchema) (*Course, error) {
	if schema == nil {
		return nil, fmt.Errorf("nil course schema")
	}
	now := time.Now().UTC()
	course := &Course{}

	for _, u := range schema.Units {
		unit := &domain.RawUnit{
			ID:          uuid.New().String(),
			Title:       u.Title,
			Description: u.Description,
			CreatedAt:   now,
		}

		for li, l := range u.Lessons {
			xp := domain.DefaultLessonXP
			if l.XP != nil {
				xp = domain.LessonXP(*l.XP)
			}
			lesson := domain.RawLesson{
				ID:          uuid.New().String(),
				UnitID:      unit.ID,
				Title:       l.Title,
				Description: l.Description,
				XPReward:    xp,
				Position:    positionOr(l.Position, li),
			}
			unit.Lessons = append(unit.Lessons, lesson)

			for qi, q := range l.Questions {
				course.Questions = append(course.Questions, convertQuestion(lesson.ID, q, qi))
			}
		}

		course.Units = append(course.Units, unit)
	}

	return course, nil
}

func convertQuestion(lessonID string, q QuestionImport, index int) *domain.Question {
	question := &domain.Question{
		ID:       uuid.New().String(),
		LessonID: lessonID,
		Text:     q.Text,
		Position: positionOr(q.Position, index),
	}
	for oi, o := range q.Options {
		question.Options = append(question.Options, domain.Option{
			ID:         uuid.New().String(),
			QuestionID: question.ID,
			Text:       o.Text,
			IsCorrect:  o.Correct,
			Position:   positionOr(o.Position, oi),
		})
	}
	return question
}
