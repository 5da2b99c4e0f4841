package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devlingo/devlingo/internal/cli/formatter"
	"github.com/devlingo/devlingo/internal/domain"
)

// resultView closes a run that was not flawless.
type resultView struct {
	state      *SharedState
	lessonID   string
	title      string
	summary    domain.AttemptSummary
	outOfLives bool
}

func newResultView(state *SharedState, lessonID, title string, summary domain.AttemptSummary, outOfLives bool) *resultView {
	return &resultView{
		state:      state,
		lessonID:   lessonID,
		title:      title,
		summary:    summary,
		outOfLives: outOfLives,
	}
}

func (v *resultView) ID() ViewID    { return ViewResult }
func (v *resultView) Title() string { return "Result" }

func (v *resultView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "back to path")),
	}
}

func (v *resultView) Init() tea.Cmd { return nil }

func (v *resultView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch keyMsg.String() {
	case "r":
		return v, replaceView(newLessonView(v.state, v.lessonID, v.title))
	case "enter", "esc", "q":
		return v, popView(true)
	}
	return v, nil
}

func (v *resultView) View() string {
	heading := "Lesson finished"
	if v.outOfLives {
		heading = "Out of lives"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s\n\n", formatter.Bold(v.title))
	fmt.Fprintf(&body, "%s  %d\n", formatter.Dim("Correct  "), v.summary.Correct)
	fmt.Fprintf(&body, "%s  %d\n", formatter.Dim("Incorrect"), v.summary.Incorrect)
	fmt.Fprintf(&body, "%s  %s\n\n", formatter.Dim("Accuracy "),
		formatter.AccuracyStyle(v.summary.Accuracy).Render(fmt.Sprintf("%d%%", v.summary.Accuracy)))
	body.WriteString(formatter.Dim("Finish a lesson without mistakes to earn its XP."))

	return "\n" + formatter.RenderBox(heading, body.String()) + "\n"
}

// successView celebrates a flawless run.
type successView struct {
	state   *SharedState
	title   string
	summary domain.AttemptSummary
	saved   bool
}

func newSuccessView(state *SharedState, title string, summary domain.AttemptSummary, saved bool) *successView {
	return &successView{state: state, title: title, summary: summary, saved: saved}
}

func (v *successView) ID() ViewID    { return ViewSuccess }
func (v *successView) Title() string { return "Complete" }

func (v *successView) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue"))}
}

func (v *successView) Init() tea.Cmd { return nil }

func (v *successView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "esc", "q", " ":
			return v, popView(true)
		}
	}
	return v, nil
}

func (v *successView) View() string {
	var body strings.Builder
	fmt.Fprintf(&body, "%s\n\n", formatter.Bold(v.title))
	fmt.Fprintf(&body, "%s  +%s\n", formatter.Dim("Earned  "), formatter.FormatXP(v.summary.XP))
	fmt.Fprintf(&body, "%s  %s\n", formatter.Dim("Accuracy"),
		formatter.AccuracyStyle(v.summary.Accuracy).Render(fmt.Sprintf("%d%%", v.summary.Accuracy)))
	if !v.saved {
		body.WriteString("\n" + formatter.StyleYellow.Render("⚠ Your progress could not be saved. Complete the lesson again to record it."))
	}
	return "\n" + formatter.RenderBox("Lesson complete!", body.String()) + "\n"
}
