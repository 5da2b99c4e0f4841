package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devlingo/devlingo/internal/cli/formatter"
	"github.com/devlingo/devlingo/internal/domain"
)

// unitsLoadedMsg carries the unit path read for the load identified by token.
type unitsLoadedMsg struct {
	token uint64
	units []domain.Unit
	xp    int
}

// pathRow is one selectable lesson in the flattened path.
type pathRow struct {
	unit   int
	lesson int
}

// pathView lists units and their lessons. Lessons of locked units can be
// highlighted but not opened.
type pathView struct {
	state   *SharedState
	spinner spinner.Model
	token   uint64
	loading bool
	units   []domain.Unit
	rows    []pathRow
	cursor  int
	notice  string
}

func newPathView(state *SharedState) *pathView {
	return &pathView{
		state:   state,
		spinner: newSpinner(),
		loading: true,
	}
}

func newSpinner() spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple))
}

func (v *pathView) ID() ViewID    { return ViewPath }
func (v *pathView) Title() string { return "Path" }

func (v *pathView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start lesson")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *pathView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.load())
}

// load starts a fresh read; results of earlier reads become stale.
func (v *pathView) load() tea.Cmd {
	v.token = v.state.NextToken()
	v.loading = true
	token, app, ctx := v.token, v.state.App, v.state.Ctx
	return func() tea.Msg {
		return unitsLoadedMsg{
			token: token,
			units: app.Units.ListUnits(ctx),
			xp:    app.Auth.UserXP(ctx),
		}
	}
}

func (v *pathView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case unitsLoadedMsg:
		if msg.token != v.token {
			return v, nil
		}
		v.loading = false
		v.setUnits(msg.units)
		v.state.SetXP(msg.xp)
		return v, nil

	case refreshViewMsg:
		v.notice = ""
		return v, tea.Batch(v.spinner.Tick, v.load())

	case spinner.TickMsg:
		if !v.loading {
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

func (v *pathView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return v, quit()
	case "o":
		app, ctx := v.state.App, v.state.Ctx
		return v, func() tea.Msg {
			if err := app.Auth.SignOut(ctx); err != nil {
				app.logger().Warn("sign-out left a stored session behind", "error", err)
			}
			return authChangedMsg{user: nil}
		}
	case "r":
		v.notice = ""
		return v, tea.Batch(v.spinner.Tick, v.load())
	}

	if v.loading || len(v.rows) == 0 {
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		v.notice = ""
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
		v.notice = ""
	case "enter":
		row := v.rows[v.cursor]
		unit := v.units[row.unit]
		if unit.Status == domain.UnitLocked {
			v.notice = "Complete the previous unit to unlock this lesson."
			return v, nil
		}
		lesson := unit.Lessons[row.lesson]
		return v, pushView(newLessonView(v.state, lesson.ID, lesson.Title))
	}
	return v, nil
}

// setUnits replaces the path. The cursor lands on the first lesson still to
// do, or stays on the previously selected lesson when everything is done.
func (v *pathView) setUnits(units []domain.Unit) {
	var selected string
	if v.cursor < len(v.rows) {
		r := v.rows[v.cursor]
		selected = v.units[r.unit].Lessons[r.lesson].ID
	}

	v.units = units
	v.rows = v.rows[:0]
	v.cursor = 0
	first, prev := -1, -1
	for ui, u := range units {
		for li, l := range u.Lessons {
			if l.ID == selected {
				prev = len(v.rows)
			}
			if first < 0 && u.Status != domain.UnitLocked && !l.Completed {
				first = len(v.rows)
			}
			v.rows = append(v.rows, pathRow{unit: ui, lesson: li})
		}
	}
	switch {
	case first >= 0:
		v.cursor = first
	case prev >= 0:
		v.cursor = prev
	}
}

func (v *pathView) View() string {
	if v.loading && v.units == nil {
		return "\n  " + v.spinner.View() + " " + formatter.Dim("Loading your path...")
	}

	var b strings.Builder
	b.WriteString("\n")
	if len(v.units) == 0 {
		b.WriteString("  " + formatter.Dim("No units yet. Import a course with `devlingo import FILE`.") + "\n")
		return b.String()
	}

	row := 0
	for _, u := range v.units {
		fmt.Fprintf(&b, "  %s  %s  %s\n",
			formatter.Bold(u.Title),
			formatter.UnitStatusPill(u.Status),
			formatter.RenderCompactBar(domain.UnitProgress(u), 10))
		for _, l := range u.Lessons {
			cursor := "    "
			if row == v.cursor {
				cursor = "  " + formatter.StyleGreen.Render("▸ ")
			}
			fmt.Fprintf(&b, "%s%s %s  %s\n", cursor, lessonMarker(u, l), lessonTitle(u, l, row == v.cursor), formatter.Dim(fmt.Sprintf("%d XP", l.XP)))
			row++
		}
		b.WriteString("\n")
	}

	if v.notice != "" {
		b.WriteString("  " + formatter.StyleYellow.Render(v.notice) + "\n")
	}
	return b.String()
}

func lessonMarker(u domain.Unit, l domain.Lesson) string {
	switch {
	case l.Completed:
		return formatter.StyleGreen.Render("✔")
	case u.Status == domain.UnitLocked:
		return formatter.Dim("✖")
	default:
		return formatter.StyleYellow.Render("●")
	}
}

func lessonTitle(u domain.Unit, l domain.Lesson, selected bool) string {
	switch {
	case selected:
		return formatter.Bold(l.Title)
	case u.Status == domain.UnitLocked || l.Completed:
		return formatter.Dim(l.Title)
	default:
		return formatter.StyleFg.Render(l.Title)
	}
}
