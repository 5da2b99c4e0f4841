package cli

import (
	"context"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devlingo/devlingo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubView struct {
	id       ViewID
	title    string
	seen     []tea.Msg
	initCmd  tea.Cmd
	viewText string
}

func (v *stubView) Init() tea.Cmd { return v.initCmd }

func (v *stubView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	v.seen = append(v.seen, msg)
	return v, nil
}

func (v *stubView) View() string             { return v.viewText }
func (v *stubView) ID() ViewID               { return v.id }
func (v *stubView) ShortHelp() []key.Binding { return nil }
func (v *stubView) Title() string            { return v.title }

func TestAppModel_NavigationMessages(t *testing.T) {
	env := newTestEnv(t)
	m := newAppModel(env.app)
	t.Cleanup(m.close)
	require.Equal(t, ViewSignIn, m.activeView().ID())

	lesson := &stubView{id: ViewLesson, title: "Lesson"}
	result := &stubView{id: ViewResult, title: "Result"}

	model, _ := m.Update(pushViewMsg{view: lesson})
	m = model.(appModel)
	require.Len(t, m.viewStack, 2)

	model, _ = m.Update(replaceViewMsg{view: result})
	m = model.(appModel)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, result, m.activeView())

	model, _ = m.Update(popViewMsg{})
	m = model.(appModel)
	require.Len(t, m.viewStack, 1)

	// The root is never popped.
	model, _ = m.Update(popViewMsg{})
	m = model.(appModel)
	assert.Len(t, m.viewStack, 1)
}

func TestAppModel_HomeRefreshesRoot(t *testing.T) {
	env := newTestEnv(t)
	m := newAppModel(env.app)
	t.Cleanup(m.close)

	root := &stubView{id: ViewPath}
	m.viewStack = []View{root, &stubView{id: ViewLesson}, &stubView{id: ViewResult}}

	model, _ := m.Update(homeMsg{})
	m = model.(appModel)

	require.Len(t, m.viewStack, 1)
	require.Len(t, root.seen, 1)
	assert.IsType(t, refreshViewMsg{}, root.seen[0])
}

func TestAppModel_PopWithRefresh(t *testing.T) {
	env := newTestEnv(t)
	m := newAppModel(env.app)
	t.Cleanup(m.close)

	root := &stubView{id: ViewPath}
	m.viewStack = []View{root, &stubView{id: ViewSuccess}}

	model, _ := m.Update(popViewMsg{refresh: true})
	m = model.(appModel)

	require.Len(t, m.viewStack, 1)
	require.Len(t, root.seen, 1)
	assert.IsType(t, refreshViewMsg{}, root.seen[0])
}

func TestAppModel_HeaderShowsBreadcrumbAndUser(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t)
	m := newAppModel(env.app)
	t.Cleanup(m.close)
	m.state.SetXP(30)
	m.viewStack = []View{&stubView{id: ViewPath, title: "Path"}, &stubView{id: ViewLesson, title: "Variables"}}

	header := m.renderHeader()
	assert.Contains(t, header, "devlingo › Path › Variables")
	assert.Contains(t, header, "Ana")
	assert.Contains(t, header, "30 XP")
}

func TestLessonView_DropsStaleLoads(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t)
	env.seedCourse(t, 2)
	state := newSharedState(env.app)

	v := newLessonView(state, "l1", "")
	stale := v.load()
	live := v.load()

	v.Update(stale())
	assert.Equal(t, domain.QuizLoading, v.quiz.State())

	v.Update(live())
	assert.Equal(t, domain.QuizReady, v.quiz.State())
	assert.Equal(t, "Variables", v.Title())

	// A late duplicate of the live load does not reset the session.
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	v.Update(live())
	assert.Equal(t, 1, v.quiz.Index())
}

func TestLessonView_DropsStaleSave(t *testing.T) {
	env := newTestEnv(t)
	state := newSharedState(env.app)
	v := newLessonView(state, "l1", "Variables")
	v.load()

	_, cmd := v.Update(lessonSavedMsg{token: v.token + 1, saved: true})
	assert.Nil(t, cmd)
}

func TestPathView_DropsStaleLoads(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t)
	env.seedCourse(t, 1)
	state := newSharedState(env.app)

	v := newPathView(state)
	stale := v.load()
	live := v.load()

	v.Update(live())
	require.Len(t, v.units, 2)

	v.Update(unitsLoadedMsg{token: 0, units: nil})
	assert.Len(t, v.units, 2)

	msg := stale().(unitsLoadedMsg)
	msg.units = nil
	v.Update(msg)
	assert.Len(t, v.units, 2)
}

func TestSubmitSignIn(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t)
	ctx := context.Background()
	require.NoError(t, env.auth.SignOut(ctx))

	msg := submitSignIn(ctx, env.auth, "ana@example.com", "wrong-pass")
	assert.Equal(t, authFailedMsg{message: "Invalid e-mail or password."}, msg)

	msg = submitSignIn(ctx, env.auth, "not-an-email", "secret1")
	failed, ok := msg.(authFailedMsg)
	require.True(t, ok)
	assert.Contains(t, failed.message, "Invalid e-mail")

	msg = submitSignIn(ctx, env.auth, "ana@example.com", "secret1")
	changed, ok := msg.(authChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "Ana", changed.user.Name)
}

func TestSubmitSignUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := domain.SignUpInput{Name: "Ana", Email: "ana@example.com", Password: "secret1", ConfirmPassword: "secret1"}

	mismatch := in
	mismatch.ConfirmPassword = "secret2"
	failed, ok := submitSignUp(ctx, env.auth, mismatch).(authFailedMsg)
	require.True(t, ok)
	assert.Contains(t, failed.message, "Passwords do not match")

	changed, ok := submitSignUp(ctx, env.auth, in).(authChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", changed.user.Email)

	failed, ok = submitSignUp(ctx, env.auth, in).(authFailedMsg)
	require.True(t, ok)
	assert.Equal(t, "This e-mail is already registered.", failed.message)
}

func TestSignInView_ShowsFailure(t *testing.T) {
	env := newTestEnv(t)
	state := newSharedState(env.app)
	v := newSignInView(state, "ana@example.com")
	v.password = "typed"

	v.Update(authFailedMsg{message: "Invalid e-mail or password."})

	assert.Contains(t, v.View(), "Invalid e-mail or password.")
	assert.Equal(t, "ana@example.com", v.email)
	assert.Empty(t, v.password)
}
