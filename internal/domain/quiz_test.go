package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quizLesson builds a lesson with n questions; option "<q>-ok" is correct and
// "<q>-bad" is wrong for each question.
func quizLesson(n int) *Lesson {
	l := &Lesson{ID: "lesson-1", Title: "Variables"}
	for i := n; i >= 1; i-- {
		qid := fmt.Sprintf("q%d", i)
		l.Questions = append(l.Questions, Question{
			ID:       qid,
			LessonID: l.ID,
			Text:     "Question " + qid,
			Position: i,
			Options: []Option{
				{ID: qid + "-bad", QuestionID: qid, Text: "wrong", Position: 2},
				{ID: qid + "-ok", QuestionID: qid, Text: "right", IsCorrect: true, Position: 1},
			},
		})
	}
	return l
}

func loadedSession(t *testing.T, n int, opts ...QuizOption) *QuizSession {
	t.Helper()
	q := NewQuizSession(opts...)
	_, err := q.Load(quizLesson(n))
	require.NoError(t, err)
	require.Equal(t, QuizReady, q.State())
	return q
}

func answer(t *testing.T, q *QuizSession, correct bool) {
	t.Helper()
	id := q.CurrentQuestion().ID + "-bad"
	if correct {
		id = q.CurrentQuestion().ID + "-ok"
	}
	_, err := q.Select(id)
	require.NoError(t, err)
	_, err = q.Verify()
	require.NoError(t, err)
	_, err = q.Continue()
	require.NoError(t, err)
}

func TestQuizSession_LoadSortsByPosition(t *testing.T) {
	q := loadedSession(t, 3)
	assert.Equal(t, "q1", q.CurrentQuestion().ID)
	assert.Equal(t, "q1-ok", q.CurrentQuestion().Options[0].ID)
	assert.Equal(t, 3, q.QuestionCount())
	assert.Equal(t, DefaultLives, q.Lives())
}

func TestQuizSession_LoadEmpty(t *testing.T) {
	q := NewQuizSession()
	tr, err := q.Load(&Lesson{ID: "x"})
	require.NoError(t, err)
	assert.Equal(t, Transition{From: QuizLoading, To: QuizEmpty}, tr)

	q = NewQuizSession()
	_, err = q.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, QuizEmpty, q.State())
	assert.Equal(t, 0, q.QuestionCount())
	assert.NotNil(t, q.CurrentQuestion())
}

func TestQuizSession_FlawlessRunSucceeds(t *testing.T) {
	q := loadedSession(t, 3)
	for i := 0; i < 3; i++ {
		answer(t, q, true)
	}

	assert.Equal(t, QuizSuccess, q.State())
	s := q.Summary()
	assert.Equal(t, OutcomeSuccess, s.Outcome)
	assert.Equal(t, 3, s.Correct)
	assert.Equal(t, 0, s.Incorrect)
	assert.Equal(t, 100, s.Accuracy)
	assert.Equal(t, DefaultQuizXP, s.XP)
	assert.Equal(t, "lesson-1", s.LessonID)
}

func TestQuizSession_OneMistakeEndsInResult(t *testing.T) {
	q := loadedSession(t, 2)

	answer(t, q, false)
	assert.Equal(t, QuizReady, q.State())
	assert.Equal(t, 0, q.Index(), "wrong answer keeps the same question")
	assert.Equal(t, 2, q.Lives())

	answer(t, q, true)
	answer(t, q, true)

	assert.Equal(t, QuizResult, q.State())
	s := q.Summary()
	assert.Equal(t, OutcomeResult, s.Outcome)
	assert.Equal(t, 2, s.Correct)
	assert.Equal(t, 1, s.Incorrect)
	assert.Equal(t, 67, s.Accuracy)
	assert.Zero(t, s.XP)
}

func TestQuizSession_LosingAllLivesEndsInResult(t *testing.T) {
	q := loadedSession(t, 5)
	for i := 0; i < DefaultLives; i++ {
		answer(t, q, false)
	}

	assert.Equal(t, QuizResult, q.State())
	assert.Equal(t, 0, q.Lives())
	assert.Equal(t, 0, q.Index())
	assert.Equal(t, DefaultLives, q.Incorrect())
	assert.Equal(t, 0, q.Summary().Accuracy)
}

func TestQuizSession_WithLives(t *testing.T) {
	q := loadedSession(t, 2, WithLives(1))
	answer(t, q, false)
	assert.Equal(t, QuizResult, q.State())

	q = NewQuizSession(WithLives(0), WithXPReward(-1))
	assert.Equal(t, DefaultLives, q.Lives())
	assert.Equal(t, DefaultQuizXP, q.XPReward())
}

func TestQuizSession_SkipAdvancesWithoutCounting(t *testing.T) {
	q := loadedSession(t, 2)

	tr, err := q.Skip()
	require.NoError(t, err)
	assert.Equal(t, QuizReady, tr.To)
	assert.Equal(t, 1, q.Index())

	tr, err = q.Skip()
	require.NoError(t, err)
	assert.Equal(t, QuizLeft, tr.To)
	assert.Zero(t, q.Correct())
	assert.Zero(t, q.Incorrect())
	assert.Equal(t, DefaultLives, q.Lives())
	assert.Equal(t, OutcomeQuit, q.Summary().Outcome)
}

func TestQuizSession_SkipClearsSelection(t *testing.T) {
	q := loadedSession(t, 2)
	_, err := q.Select("q1-ok")
	require.NoError(t, err)
	_, err = q.Skip()
	require.NoError(t, err)
	assert.Empty(t, q.Selected())
}

func TestQuizSession_SelectOverwrites(t *testing.T) {
	q := loadedSession(t, 1)
	_, err := q.Select("q1-bad")
	require.NoError(t, err)
	tr, err := q.Select("q1-ok")
	require.NoError(t, err)
	assert.Equal(t, Transition{From: QuizSelecting, To: QuizSelecting}, tr)
	assert.Equal(t, "q1-ok", q.Selected())
}

func TestQuizSession_SelectUnknownOption(t *testing.T) {
	q := loadedSession(t, 1)
	_, err := q.Select("q2-ok")
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, QuizReady, q.State())
}

func TestQuizSession_VerifyWithoutSelection(t *testing.T) {
	q := loadedSession(t, 1)
	_, err := q.Verify()
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, QuizReady, q.State())
}

func TestQuizSession_IllegalTransitions(t *testing.T) {
	q := NewQuizSession()
	_, err := q.Select("x")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = q.Continue()
	assert.ErrorIs(t, err, ErrIllegalTransition)

	q = loadedSession(t, 1)
	_, err = q.Load(quizLesson(1))
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = q.Select("q1-ok")
	require.NoError(t, err)
	_, err = q.Verify()
	require.NoError(t, err)
	_, err = q.Select("q1-bad")
	assert.ErrorIs(t, err, ErrIllegalTransition, "no re-selection after verification")
	_, err = q.Skip()
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestQuizSession_TerminalStatesAreFinal(t *testing.T) {
	q := loadedSession(t, 1)
	answer(t, q, true)
	require.True(t, q.State().Terminal())

	_, err := q.Close()
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = q.Skip()
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, QuizSuccess, q.State())
}

func TestQuizSession_CloseFromAnyActiveState(t *testing.T) {
	for _, st := range []QuizState{QuizLoading, QuizReady, QuizSelecting, QuizVerifiedIncorrect} {
		t.Run(st.String(), func(t *testing.T) {
			q := NewQuizSession()
			if st != QuizLoading {
				_, err := q.Load(quizLesson(2))
				require.NoError(t, err)
			}
			if st == QuizSelecting || st == QuizVerifiedIncorrect {
				_, err := q.Select("q1-bad")
				require.NoError(t, err)
			}
			if st == QuizVerifiedIncorrect {
				_, err := q.Verify()
				require.NoError(t, err)
			}
			require.Equal(t, st, q.State())

			tr, err := q.Close()
			require.NoError(t, err)
			assert.Equal(t, Transition{From: st, To: QuizLeft}, tr)
		})
	}
}

func TestQuizSession_Progress(t *testing.T) {
	q := loadedSession(t, 4)
	assert.InDelta(t, 0.25, q.Progress(), 1e-9)
	answer(t, q, true)
	assert.InDelta(t, 0.5, q.Progress(), 1e-9)
	assert.Equal(t, 0.0, NewQuizSession().Progress())
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		correct, incorrect, want int
	}{
		{0, 0, 0},
		{3, 0, 100},
		{0, 3, 0},
		{2, 1, 67},
		{1, 2, 33},
		{1, 1, 50},
		{5, 3, 63},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Accuracy(tc.correct, tc.incorrect), "%d/%d", tc.correct, tc.incorrect)
	}
}

func TestQuizState_String(t *testing.T) {
	assert.Equal(t, "verified_correct", QuizVerifiedCorrect.String())
	assert.Equal(t, "QuizState(42)", QuizState(42).String())
}
