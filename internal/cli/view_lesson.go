package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devlingo/devlingo/internal/cli/formatter"
	"github.com/devlingo/devlingo/internal/domain"
)

// lessonLoadedMsg carries the lesson read for the load identified by token.
// A nil lesson means it could not be read.
type lessonLoadedMsg struct {
	token  uint64
	lesson *domain.Lesson
}

// lessonSavedMsg reports the completion write of a flawless run.
type lessonSavedMsg struct {
	token   uint64
	summary domain.AttemptSummary
	saved   bool
}

// lessonView hosts one quiz session.
type lessonView struct {
	state    *SharedState
	spinner  spinner.Model
	token    uint64
	lessonID string
	title    string
	quiz     *domain.QuizSession
	cursor   int
	notice   string

	// finished is set once the terminal outcome has been handed off, so a
	// completion is never written twice for one run.
	finished bool
}

func newLessonView(state *SharedState, lessonID, title string) *lessonView {
	return &lessonView{
		state:    state,
		spinner:  newSpinner(),
		lessonID: lessonID,
		title:    title,
		quiz:     domain.NewQuizSession(domain.WithLives(state.App.Lives)),
	}
}

func (v *lessonView) ID() ViewID { return ViewLesson }

func (v *lessonView) Title() string {
	if v.title == "" {
		return "Lesson"
	}
	return v.title
}

func (v *lessonView) ShortHelp() []key.Binding {
	switch v.quiz.State() {
	case domain.QuizEmpty:
		return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "return home"))}
	case domain.QuizReady, domain.QuizSelecting:
		return []key.Binding{
			key.NewBinding(key.WithKeys("1-9"), key.WithHelp("1-9/↑↓", "choose")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "check")),
			key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave")),
		}
	case domain.QuizVerifiedCorrect, domain.QuizVerifiedIncorrect:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave")),
		}
	}
	return []key.Binding{key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave"))}
}

func (v *lessonView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.load())
}

func (v *lessonView) load() tea.Cmd {
	v.token = v.state.NextToken()
	token, app, ctx, id := v.token, v.state.App, v.state.Ctx, v.lessonID
	return func() tea.Msg {
		return lessonLoadedMsg{token: token, lesson: app.Lessons.GetLesson(ctx, id)}
	}
}

func (v *lessonView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonLoadedMsg:
		if msg.token != v.token || v.quiz.State() != domain.QuizLoading {
			return v, nil
		}
		if msg.lesson != nil && msg.lesson.Title != "" {
			v.title = msg.lesson.Title
		}
		_, _ = v.quiz.Load(msg.lesson)
		return v, nil

	case lessonSavedMsg:
		if msg.token != v.token {
			return v, nil
		}
		return v, replaceView(newSuccessView(v.state, v.Title(), msg.summary, msg.saved))

	case spinner.TickMsg:
		if v.quiz.State() != domain.QuizLoading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *lessonView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.finished {
		return v, nil
	}
	v.notice = ""

	switch v.quiz.State() {
	case domain.QuizEmpty:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			return v, goHome()
		}
		return v, nil

	case domain.QuizLoading:
		if msg.Type == tea.KeyEsc {
			_, _ = v.quiz.Close()
			return v, v.settle()
		}
		return v, nil

	case domain.QuizVerifiedCorrect, domain.QuizVerifiedIncorrect:
		switch msg.String() {
		case "enter", " ":
			_, _ = v.quiz.Continue()
			v.cursor = 0
			return v, v.settle()
		case "esc":
			_, _ = v.quiz.Close()
			return v, v.settle()
		}
		return v, nil
	}

	// Ready or selecting.
	options := v.quiz.CurrentQuestion().Options
	switch s := msg.String(); s {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		v.choose(options)
	case "down", "j":
		if v.cursor < len(options)-1 {
			v.cursor++
		}
		v.choose(options)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if i := int(s[0] - '1'); i < len(options) {
			v.cursor = i
			v.choose(options)
		}
	case "enter":
		if _, err := v.quiz.Verify(); errors.Is(err, domain.ErrNoSelection) {
			v.notice = "Pick an answer first."
		}
	case "s":
		_, _ = v.quiz.Skip()
		v.cursor = 0
		return v, v.settle()
	case "esc":
		_, _ = v.quiz.Close()
		return v, v.settle()
	}
	return v, nil
}

func (v *lessonView) maxLives() int {
	if v.state.App.Lives < 1 {
		return domain.DefaultLives
	}
	return v.state.App.Lives
}

func (v *lessonView) choose(options []domain.Option) {
	if v.cursor < len(options) {
		_, _ = v.quiz.Select(options[v.cursor].ID)
	}
}

// settle hands a terminal session to the next screen. Leaving records
// nothing; a finished run records its attempt; a flawless run also writes the
// completion before the success screen appears.
func (v *lessonView) settle() tea.Cmd {
	state := v.quiz.State()
	if !state.Terminal() || v.finished {
		return nil
	}
	v.finished = true
	summary := v.quiz.Summary()
	app, ctx, token := v.state.App, v.state.Ctx, v.token

	switch state {
	case domain.QuizSuccess:
		return func() tea.Msg {
			saved := app.Progress.CompleteLesson(ctx, summary.LessonID, summary.XP)
			app.Progress.RecordAttempt(ctx, summary)
			return lessonSavedMsg{token: token, summary: summary, saved: saved}
		}
	case domain.QuizResult:
		record := func() tea.Msg {
			app.Progress.RecordAttempt(ctx, summary)
			return nil
		}
		outOfLives := v.quiz.Lives() == 0
		return tea.Batch(record, replaceView(newResultView(v.state, v.lessonID, v.Title(), summary, outOfLives)))
	default:
		return popView(false)
	}
}

func (v *lessonView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	switch v.quiz.State() {
	case domain.QuizLoading:
		b.WriteString("  " + v.spinner.View() + " " + formatter.Dim("Loading lesson...") + "\n")
		return b.String()
	case domain.QuizEmpty:
		b.WriteString("  " + formatter.Bold("This lesson has no questions yet.") + "\n\n")
		b.WriteString("  " + formatter.Dim("Press enter to return home.") + "\n")
		return b.String()
	}
	if v.quiz.State().Terminal() {
		b.WriteString("  " + formatter.Dim("Saving...") + "\n")
		return b.String()
	}

	q := v.quiz.CurrentQuestion()
	fmt.Fprintf(&b, "  %s  %s  %s\n\n",
		formatter.RenderProgress(v.quiz.Progress(), 20),
		formatter.Dim(fmt.Sprintf("%d/%d", v.quiz.Index()+1, v.quiz.QuestionCount())),
		formatter.Lives(v.quiz.Lives(), v.maxLives()))
	b.WriteString("  " + formatter.Bold(q.Text) + "\n\n")

	verified := v.quiz.State() == domain.QuizVerifiedCorrect || v.quiz.State() == domain.QuizVerifiedIncorrect
	var answer string
	for i, o := range q.Options {
		if o.IsCorrect && answer == "" {
			answer = o.Text
		}
		cursor := "  "
		if i == v.cursor && !verified {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		label := fmt.Sprintf("%d. %s", i+1, o.Text)
		switch {
		case verified && o.IsCorrect:
			label = formatter.StyleGreen.Render(label + " ✔")
		case verified && o.ID == v.quiz.Selected():
			label = formatter.StyleRed.Render(label + " ✖")
		case o.ID == v.quiz.Selected():
			label = formatter.StyleYellowBold.Render(label)
		case verified:
			label = formatter.Dim(label)
		}
		b.WriteString("  " + cursor + label + "\n")
	}

	switch v.quiz.State() {
	case domain.QuizVerifiedCorrect:
		b.WriteString("\n  " + formatter.StyleGreen.Render("Correct!") + "\n")
	case domain.QuizVerifiedIncorrect:
		b.WriteString("\n  " + formatter.StyleRed.Render("Not quite.") + " " + formatter.Dim("Answer: "+answer) + "\n")
	}
	if v.notice != "" {
		b.WriteString("\n  " + formatter.StyleYellow.Render(v.notice) + "\n")
	}
	return b.String()
}
