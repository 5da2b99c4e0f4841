package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/testutil"
)

// signedIn is a CurrentUser that always reports the same user. The empty
// value is signed out.
type signedIn string

func (u signedIn) CurrentUser(context.Context) (string, bool) {
	return string(u), u != ""
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.events) == 0 {
		return UseCaseEvent{}
	}
	return o.events[len(o.events)-1]
}

// course is two units: "u1" with lessons l1 and l2, "u2" with lesson l3
// (20 XP). Every lesson has two questions.
type course struct {
	db   *sql.DB
	user *domain.User
}

func newCourse(t *testing.T) *course {
	t.Helper()
	database := testutil.NewTestDB(t)
	user := testutil.NewTestUser("Ana")
	testutil.SeedUser(t, database, user)

	u1 := testutil.NewTestUnit("Basics", testutil.WithUnitID("u1"), testutil.WithLessons(
		testutil.NewTestLesson("Variables", testutil.WithLessonID("l1")),
		testutil.NewTestLesson("Constants", testutil.WithLessonID("l2")),
	))
	u2 := testutil.NewTestUnit("Loops", testutil.WithUnitID("u2"), testutil.WithLessons(
		testutil.NewTestLesson("For", testutil.WithLessonID("l3"), testutil.WithXPReward(20)),
	))
	testutil.SeedCourse(t, database, 2, u1, u2)

	return &course{db: database, user: user}
}

func (c *course) totalXP(t *testing.T) int {
	t.Helper()
	var xp int
	if err := c.db.QueryRow(`SELECT total_xp FROM users WHERE id = ?`, c.user.ID).Scan(&xp); err != nil {
		t.Fatalf("reading total xp: %v", err)
	}
	return xp
}

func (c *course) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := c.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("counting: %v", err)
	}
	return n
}
