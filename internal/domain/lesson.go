package domain

import "sort"

// DefaultLessonXP is the reward used when a lesson's stored reward is missing or zero.
const DefaultLessonXP = 10

type Option struct {
	ID         string
	QuestionID string
	Text       string
	IsCorrect  bool
	Position   int
}

type Question struct {
	ID       string
	LessonID string
	Text     string
	Position int
	Options  []Option
}

// Option returns the option with the given id, or nil.
func (q *Question) Option(id string) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// Lesson is the learner-facing view of a lesson. Completed is derived from the
// user's completion set and is never stored on the lesson itself.
type Lesson struct {
	ID          string
	UnitID      string
	Title       string
	Description string
	XP          int
	Completed   bool
	Questions   []Question
}

// RawLesson is a lesson row as read from storage, before progress is applied.
type RawLesson struct {
	ID          string
	UnitID      string
	Title       string
	Description string
	XPReward    int
	Position    int
}

// SortQuestions orders questions and each question's options by ascending position.
func SortQuestions(questions []Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Position < questions[j].Position
	})
	for i := range questions {
		opts := questions[i].Options
		sort.SliceStable(opts, func(a, b int) bool {
			return opts[a].Position < opts[b].Position
		})
	}
}

// LessonXP returns the stored reward, falling back to DefaultLessonXP.
func LessonXP(reward int) int {
	if reward <= 0 {
		return DefaultLessonXP
	}
	return reward
}
