package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	TotalXP      int
	CreatedAt    time.Time
}

// LessonCompletion is a user's completion record for one lesson.
type LessonCompletion struct {
	UserID      string
	LessonID    string
	IsCompleted bool
	XPEarned    int
	CompletedAt time.Time
}

// UnitCompletion is an explicit unit-level completion record.
type UnitCompletion struct {
	UserID      string
	UnitID      string
	CompletedAt time.Time
}

type AttemptOutcome string

const (
	OutcomeSuccess AttemptOutcome = "success"
	OutcomeResult  AttemptOutcome = "result"
	OutcomeQuit    AttemptOutcome = "quit"
)

// Attempt is the persisted summary of a finished lesson attempt.
type Attempt struct {
	ID        string
	UserID    string
	LessonID  string
	Outcome   AttemptOutcome
	Correct   int
	Incorrect int
	Accuracy  int
	CreatedAt time.Time
}

// AuthSession is the signed-in session persisted on this device.
type AuthSession struct {
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *AuthSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
