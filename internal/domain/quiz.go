package domain

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultLives  = 3
	DefaultQuizXP = 10
)

var (
	ErrIllegalTransition = errors.New("illegal quiz transition")
	ErrNoSelection       = errors.New("no option selected")
	ErrUnknownOption     = errors.New("unknown option")
)

type QuizState int

const (
	QuizLoading QuizState = iota
	QuizEmpty
	QuizReady
	QuizSelecting
	QuizVerifiedCorrect
	QuizVerifiedIncorrect
	QuizSuccess
	QuizResult
	QuizLeft
)

var quizStateNames = map[QuizState]string{
	QuizLoading:           "loading",
	QuizEmpty:             "empty",
	QuizReady:             "ready",
	QuizSelecting:         "selecting",
	QuizVerifiedCorrect:   "verified_correct",
	QuizVerifiedIncorrect: "verified_incorrect",
	QuizSuccess:           "success",
	QuizResult:            "result",
	QuizLeft:              "left",
}

func (s QuizState) String() string {
	if name, ok := quizStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("QuizState(%d)", int(s))
}

// Terminal reports whether no further transitions are possible.
func (s QuizState) Terminal() bool {
	return s == QuizSuccess || s == QuizResult || s == QuizLeft
}

// Transition describes one state change of a quiz session.
type Transition struct {
	From QuizState
	To   QuizState
}

// AttemptSummary is what a terminal quiz state hands to the success or result screen.
type AttemptSummary struct {
	LessonID  string
	Outcome   AttemptOutcome
	Correct   int
	Incorrect int
	Accuracy  int
	XP        int
}

// QuizOption configures a QuizSession.
type QuizOption func(*QuizSession)

// WithLives sets the starting number of lives (values below 1 are ignored).
func WithLives(n int) QuizOption {
	return func(q *QuizSession) {
		if n >= 1 {
			q.startLives = n
		}
	}
}

// WithXPReward sets the XP granted on a flawless run (values below 1 are ignored).
func WithXPReward(xp int) QuizOption {
	return func(q *QuizSession) {
		if xp >= 1 {
			q.xpReward = xp
		}
	}
}

// QuizSession drives a single lesson attempt. It is owned by one view and is
// not safe for concurrent use.
type QuizSession struct {
	lesson     *Lesson
	state      QuizState
	index      int
	lives      int
	startLives int
	selected   string
	correct    int
	incorrect  int
	xpReward   int
}

// NewQuizSession returns a session in the loading state.
func NewQuizSession(opts ...QuizOption) *QuizSession {
	q := &QuizSession{
		state:      QuizLoading,
		startLives: DefaultLives,
		xpReward:   DefaultQuizXP,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.lives = q.startLives
	return q
}

// Load hands the fetched lesson to the session. A missing lesson or one
// without questions leads to the empty dead end.
func (q *QuizSession) Load(lesson *Lesson) (Transition, error) {
	if q.state != QuizLoading {
		return q.illegal("load")
	}
	if lesson == nil || len(lesson.Questions) == 0 {
		q.lesson = lesson
		return q.move(QuizEmpty), nil
	}
	q.lesson = lesson
	SortQuestions(q.lesson.Questions)
	return q.move(QuizReady), nil
}

// Select records optionID as the current choice. Selecting again overwrites it.
func (q *QuizSession) Select(optionID string) (Transition, error) {
	if q.state != QuizReady && q.state != QuizSelecting {
		return q.illegal("select")
	}
	if q.CurrentQuestion().Option(optionID) == nil {
		return Transition{From: q.state, To: q.state}, fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}
	q.selected = optionID
	return q.move(QuizSelecting), nil
}

// Skip moves to the next question without touching counters or lives.
// Skipping the last question leaves the lesson without recording anything.
func (q *QuizSession) Skip() (Transition, error) {
	if q.state != QuizReady && q.state != QuizSelecting {
		return q.illegal("skip")
	}
	q.selected = ""
	if q.hasNext() {
		q.index++
		return q.move(QuizReady), nil
	}
	return q.move(QuizLeft), nil
}

// Verify judges the selected option.
func (q *QuizSession) Verify() (Transition, error) {
	if q.state != QuizSelecting && q.state != QuizReady {
		return q.illegal("verify")
	}
	if q.selected == "" {
		return Transition{From: q.state, To: q.state}, ErrNoSelection
	}
	opt := q.CurrentQuestion().Option(q.selected)
	if opt != nil && opt.IsCorrect {
		q.correct++
		return q.move(QuizVerifiedCorrect), nil
	}
	q.incorrect++
	return q.move(QuizVerifiedIncorrect), nil
}

// Continue acknowledges the verification feedback.
//
// After a correct answer the session advances, or on the last question ends in
// success (no incorrect answers at all) or result. After an incorrect answer a
// life is lost and the learner stays on the same question; losing the last life
// ends the session in result regardless of the questions left.
func (q *QuizSession) Continue() (Transition, error) {
	switch q.state {
	case QuizVerifiedCorrect:
		q.selected = ""
		if q.hasNext() {
			q.index++
			return q.move(QuizReady), nil
		}
		if q.incorrect == 0 {
			return q.move(QuizSuccess), nil
		}
		return q.move(QuizResult), nil

	case QuizVerifiedIncorrect:
		q.selected = ""
		if q.lives > 0 {
			q.lives--
		}
		if q.lives == 0 {
			return q.move(QuizResult), nil
		}
		return q.move(QuizReady), nil
	}
	return q.illegal("continue")
}

// Close abandons the session. Nothing is recorded.
func (q *QuizSession) Close() (Transition, error) {
	if q.state.Terminal() {
		return q.illegal("close")
	}
	q.selected = ""
	return q.move(QuizLeft), nil
}

func (q *QuizSession) State() QuizState { return q.state }
func (q *QuizSession) Index() int       { return q.index }
func (q *QuizSession) Lives() int       { return q.lives }
func (q *QuizSession) Correct() int     { return q.correct }
func (q *QuizSession) Incorrect() int   { return q.incorrect }
func (q *QuizSession) Selected() string { return q.selected }
func (q *QuizSession) XPReward() int    { return q.xpReward }
func (q *QuizSession) Lesson() *Lesson  { return q.lesson }

// QuestionCount returns the number of questions in the loaded lesson.
func (q *QuizSession) QuestionCount() int {
	if q.lesson == nil {
		return 0
	}
	return len(q.lesson.Questions)
}

// CurrentQuestion returns the question at the current index, or an empty
// question when nothing is loaded.
func (q *QuizSession) CurrentQuestion() *Question {
	if q.QuestionCount() == 0 {
		return &Question{}
	}
	return &q.lesson.Questions[q.index]
}

// Progress returns the fraction of the lesson reached, counting the current question.
func (q *QuizSession) Progress() float64 {
	n := q.QuestionCount()
	if n == 0 {
		return 0
	}
	return float64(q.index+1) / float64(n)
}

// Summary describes the attempt so far. Outcome and XP are only meaningful in
// terminal states.
func (q *QuizSession) Summary() AttemptSummary {
	s := AttemptSummary{
		Correct:   q.correct,
		Incorrect: q.incorrect,
		Accuracy:  Accuracy(q.correct, q.incorrect),
	}
	if q.lesson != nil {
		s.LessonID = q.lesson.ID
	}
	switch q.state {
	case QuizSuccess:
		s.Outcome = OutcomeSuccess
		s.XP = q.xpReward
	case QuizResult:
		s.Outcome = OutcomeResult
	case QuizLeft:
		s.Outcome = OutcomeQuit
	}
	return s
}

// Accuracy is the rounded percentage of answered questions that were correct.
// Skipped questions are not answered. Returns 0 when nothing was answered.
func Accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func (q *QuizSession) hasNext() bool {
	return q.index < q.QuestionCount()-1
}

func (q *QuizSession) move(to QuizState) Transition {
	t := Transition{From: q.state, To: to}
	q.state = to
	return t
}

func (q *QuizSession) illegal(op string) (Transition, error) {
	return Transition{From: q.state, To: q.state}, fmt.Errorf("%w: %s in state %s", ErrIllegalTransition, op, q.state)
}
