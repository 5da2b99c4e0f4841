package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/google/uuid"
)

var (
	testEmailCounter atomic.Int64
	testUnitClock    atomic.Int64
)

// User options
type UserOption func(*domain.User)

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func WithPasswordHash(hash string) UserOption {
	return func(u *domain.User) {
		u.PasswordHash = hash
	}
}

func WithTotalXP(xp int) UserOption {
	return func(u *domain.User) {
		u.TotalXP = xp
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        fmt.Sprintf("user%d@example.com", testEmailCounter.Add(1)),
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Unit options
type UnitOption func(*domain.RawUnit)

func WithUnitID(id string) UnitOption {
	return func(u *domain.RawUnit) {
		u.ID = id
	}
}

func WithCreatedAt(t time.Time) UnitOption {
	return func(u *domain.RawUnit) {
		u.CreatedAt = t
	}
}

// WithLessons attaches lessons to the unit, setting their UnitID and position.
func WithLessons(lessons ...domain.RawLesson) UnitOption {
	return func(u *domain.RawUnit) {
		for i := range lessons {
			lessons[i].UnitID = u.ID
			if lessons[i].Position == 0 {
				lessons[i].Position = i + 1
			}
		}
		u.Lessons = lessons
	}
}

// NewTestUnit returns a unit whose creation time is strictly later than any
// unit built before it, so units list in construction order.
func NewTestUnit(title string, opts ...UnitOption) *domain.RawUnit {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	u := &domain.RawUnit{
		ID:          uuid.New().String(),
		Title:       title,
		Description: title + " unit",
		CreatedAt:   base.Add(time.Duration(testUnitClock.Add(1)) * time.Minute),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Lesson options
type LessonOption func(*domain.RawLesson)

func WithLessonID(id string) LessonOption {
	return func(l *domain.RawLesson) {
		l.ID = id
	}
}

func WithXPReward(xp int) LessonOption {
	return func(l *domain.RawLesson) {
		l.XPReward = xp
	}
}

func NewTestLesson(title string, opts ...LessonOption) domain.RawLesson {
	l := domain.RawLesson{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "About " + title,
		XPReward:    domain.DefaultLessonXP,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// NewTestQuestion returns a question with one correct option "<id>-ok" at
// position 1 and one wrong option "<id>-bad" at position 2.
func NewTestQuestion(lessonID string, position int) *domain.Question {
	id := fmt.Sprintf("%s-q%d", lessonID, position)
	return &domain.Question{
		ID:       id,
		LessonID: lessonID,
		Text:     fmt.Sprintf("Question %d?", position),
		Position: position,
		Options: []domain.Option{
			{ID: id + "-ok", QuestionID: id, Text: "Right answer", IsCorrect: true, Position: 1},
			{ID: id + "-bad", QuestionID: id, Text: "Wrong answer", Position: 2},
		},
	}
}

func NewTestAttempt(userID, lessonID string, outcome domain.AttemptOutcome, correct, incorrect int) *domain.Attempt {
	return &domain.Attempt{
		ID:        uuid.New().String(),
		UserID:    userID,
		LessonID:  lessonID,
		Outcome:   outcome,
		Correct:   correct,
		Incorrect: incorrect,
		Accuracy:  domain.Accuracy(correct, incorrect),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}
