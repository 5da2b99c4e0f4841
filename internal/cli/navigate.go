package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/devlingo/devlingo/internal/domain"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack.
// With refresh set, the view underneath reloads its data.
type popViewMsg struct {
	refresh bool
}

// replaceViewMsg replaces the current top view with a new one.
type replaceViewMsg struct {
	view View
}

// homeMsg drops every view above the root and refreshes it.
type homeMsg struct{}

// refreshViewMsg asks every view on the stack to reload its data.
type refreshViewMsg struct{}

// authChangedMsg is emitted after sign-in, sign-up or sign-out. The appModel
// rebuilds the stack around the new user (nil means signed out).
type authChangedMsg struct {
	user *domain.User
}

// quitMsg signals the app to quit.
type quitMsg struct{}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView(refresh bool) tea.Cmd {
	return func() tea.Msg { return popViewMsg{refresh: refresh} }
}

// replaceView returns a tea.Cmd that replaces the top view.
func replaceView(v View) tea.Cmd {
	return func() tea.Msg { return replaceViewMsg{view: v} }
}

// goHome returns a tea.Cmd that returns to the unit path.
func goHome() tea.Cmd {
	return func() tea.Msg { return homeMsg{} }
}

func quit() tea.Cmd {
	return func() tea.Msg { return quitMsg{} }
}
