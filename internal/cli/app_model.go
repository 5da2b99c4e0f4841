package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/devlingo/devlingo/internal/cli/formatter"
)

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack whose root is the unit path when signed in and the
// sign-in form otherwise.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	unsubscribe func()
}

func newAppModel(app *App) appModel {
	state := newSharedState(app)
	m := appModel{
		state:       state,
		unsubscribe: app.Auth.OnAuthChange(state.SetUser),
	}
	m.viewStack = []View{m.rootView()}
	return m
}

// rootView returns the home view for the current auth state.
func (m *appModel) rootView() View {
	if m.state.User() == nil {
		return newSignInView(m.state, "")
	}
	return newPathView(m.state)
}

// close detaches the model from the auth context.
func (m *appModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		return m.forward(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		if msg.refresh {
			return m.forward(refreshViewMsg{})
		}
		return m, nil

	case replaceViewMsg:
		if len(m.viewStack) > 0 {
			m.viewStack[len(m.viewStack)-1] = msg.view
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case homeMsg:
		m.viewStack = m.viewStack[:1]
		return m.forward(refreshViewMsg{})

	case refreshViewMsg:
		// Broadcast so views underneath reload after mutations made above them.
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case authChangedMsg:
		// The listener may already have updated the cache; setting it again
		// keeps the stack consistent when the message arrives first.
		m.state.SetUser(msg.user)
		root := m.rootView()
		m.viewStack = []View{root}
		return m, root.Init()

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m.forward(msg)
}

// forward hands msg to the active view only.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	v := m.activeView()
	if v == nil {
		return m, nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return m, cmd
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}
	return result
}

func (m *appModel) renderHeader() string {
	header := formatter.StylePurple.Render("devlingo")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	if u := m.state.User(); u != nil {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(u.Name) +
			formatter.Dim(" · ") + formatter.FormatXP(m.state.XP()) + formatter.Dim("]")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	hints = append(hints, formatter.Dim("ctrl+c: quit"))

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}

// RunTUI starts the full-screen lesson player and blocks until it exits.
func RunTUI(app *App) error {
	m := newAppModel(app)
	defer m.close()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
