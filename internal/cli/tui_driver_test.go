package cli

import (
	"bytes"
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/devlingo/devlingo/internal/auth"
	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/logger"
	"github.com/devlingo/devlingo/internal/repository"
	"github.com/devlingo/devlingo/internal/service"
	"github.com/devlingo/devlingo/internal/teatest"
	"github.com/devlingo/devlingo/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// countingProgress wraps the real progress service and records every
// completion write. With fail set, completions report failure without writing.
type countingProgress struct {
	service.ProgressService

	mu          sync.Mutex
	completions []completion
	attempts    []domain.AttemptSummary
	fail        bool
}

type completion struct {
	lessonID string
	xp       int
}

func (p *countingProgress) CompleteLesson(ctx context.Context, lessonID string, xp int) bool {
	p.mu.Lock()
	p.completions = append(p.completions, completion{lessonID: lessonID, xp: xp})
	fail := p.fail
	p.mu.Unlock()
	if fail {
		return false
	}
	return p.ProgressService.CompleteLesson(ctx, lessonID, xp)
}

func (p *countingProgress) RecordAttempt(ctx context.Context, s domain.AttemptSummary) bool {
	p.mu.Lock()
	p.attempts = append(p.attempts, s)
	p.mu.Unlock()
	return p.ProgressService.RecordAttempt(ctx, s)
}

func (p *countingProgress) Completions() []completion {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]completion(nil), p.completions...)
}

func (p *countingProgress) Attempts() []domain.AttemptSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.AttemptSummary(nil), p.attempts...)
}

// testEnv is a fully wired App over an in-memory database.
type testEnv struct {
	db       *sql.DB
	app      *App
	auth     *auth.Context
	progress *countingProgress
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	log := logger.NewNop()

	users := repository.NewSQLiteUserRepo(database)
	units := repository.NewSQLiteUnitRepo(database)
	lessons := repository.NewSQLiteLessonRepo(database)
	progress := repository.NewSQLiteProgressRepo(database)
	attempts := repository.NewSQLiteAttemptRepo(database)

	ac := auth.New(users, repository.NewSQLiteAuthSessionRepo(database), repository.NewSQLiteSettingsRepo(database),
		progress, log, auth.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, ac.Init(context.Background()))
	t.Cleanup(ac.Close)

	counting := &countingProgress{
		ProgressService: service.NewProgressService(users, lessons, progress, attempts, ac, log),
	}

	return &testEnv{
		db:       database,
		auth:     ac,
		progress: counting,
		app: &App{
			Auth:     ac,
			Units:    service.NewUnitService(units, progress, ac, log),
			Lessons:  service.NewLessonService(lessons, progress, ac, log),
			Progress: counting,
			Import:   service.NewImportService(testutil.NewTestUoW(database), log),
			Log:      log,
			Lives:    domain.DefaultLives,
		},
	}
}

// signUp creates the Ana account and leaves it signed in.
func (e *testEnv) signUp(t *testing.T) *domain.User {
	t.Helper()
	u, err := e.auth.SignUp(context.Background(), domain.SignUpInput{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return u
}

// seedCourse adds unit u1 (lessons l1, l2) and unit u2 (lesson l3), each
// lesson with questionsPerLesson questions whose correct option is "<q>-ok".
func (e *testEnv) seedCourse(t *testing.T, questionsPerLesson int) {
	t.Helper()
	u1 := testutil.NewTestUnit("Basics", testutil.WithUnitID("u1"), testutil.WithLessons(
		testutil.NewTestLesson("Variables", testutil.WithLessonID("l1")),
		testutil.NewTestLesson("Constants", testutil.WithLessonID("l2")),
	))
	u2 := testutil.NewTestUnit("Loops", testutil.WithUnitID("u2"), testutil.WithLessons(
		testutil.NewTestLesson("For", testutil.WithLessonID("l3")),
	))
	testutil.SeedCourse(t, e.db, questionsPerLesson, u1, u2)
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(query, args...).Scan(&n))
	return n
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// TestDriver wraps teatest.Driver with access to the appModel's view stack.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel, sets the terminal size and drains Init
// (which loads synchronously from the in-memory database).
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	m := newAppModel(app)
	t.Cleanup(m.close)

	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() *appModel {
	m := d.Model.(appModel)
	return &m
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// Lesson returns the active lesson view.
func (d *TestDriver) Lesson() *lessonView {
	d.T.Helper()
	v, ok := d.appModel().activeView().(*lessonView)
	require.True(d.T, ok, "active view is %T, not the lesson view", d.appModel().activeView())
	return v
}

// IsQuitting reports whether the app asked to quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// OpenLesson moves the path cursor to the n-th lesson (0-based) and opens it.
func (d *TestDriver) OpenLesson(n int) {
	d.T.Helper()
	for i := 0; i < 20; i++ {
		d.Press("up")
	}
	for i := 0; i < n; i++ {
		d.Press("down")
	}
	d.PressEnter()
}

// AnswerCorrect picks the correct option (listed first) and confirms.
func (d *TestDriver) AnswerCorrect() {
	d.T.Helper()
	d.Press("1", "enter", "enter")
}

// AnswerWrong picks the wrong option (listed second) and confirms.
func (d *TestDriver) AnswerWrong() {
	d.T.Helper()
	d.Press("2", "enter", "enter")
}
