package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/devlingo/devlingo/internal/auth"
	"github.com/devlingo/devlingo/internal/cli/formatter"
	"github.com/devlingo/devlingo/internal/domain"
)

// authFailedMsg carries a user-facing reason back to the form that submitted.
type authFailedMsg struct {
	message string
}

// submitSignIn performs the sign-in and reports the outcome as a message.
func submitSignIn(ctx context.Context, a Authenticator, email, password string) tea.Msg {
	user, err := a.SignIn(ctx, email, password)
	if err != nil {
		return authFailedMsg{message: auth.UserMessage(err)}
	}
	return authChangedMsg{user: user}
}

func submitSignUp(ctx context.Context, a Authenticator, in domain.SignUpInput) tea.Msg {
	user, err := a.SignUp(ctx, in)
	if err != nil {
		return authFailedMsg{message: auth.UserMessage(err)}
	}
	return authChangedMsg{user: user}
}

// ── sign in ──────────────────────────────────────────────────────────────────

type signInView struct {
	state    *SharedState
	form     *huh.Form
	email    string
	password string
	message  string
	pending  bool
}

func newSignInView(state *SharedState, email string) *signInView {
	v := &signInView{state: state, email: email}
	v.form = v.buildForm()
	return v
}

func (v *signInView) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("E-mail").Value(&v.email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&v.password),
		),
	).WithTheme(devlingoHuhTheme()).WithShowHelp(false)
}

func (v *signInView) ID() ViewID    { return ViewSignIn }
func (v *signInView) Title() string { return "Sign in" }

func (v *signInView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "create account")),
	}
}

func (v *signInView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *signInView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authFailedMsg:
		v.message = msg.message
		v.password = ""
		v.pending = false
		v.form = v.buildForm()
		return v, v.form.Init()

	case tea.KeyMsg:
		if msg.String() == "ctrl+n" {
			return v, replaceView(newSignUpView(v.state))
		}
	}

	if v.pending {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		v.pending = true
		ctx, a := v.state.Ctx, v.state.App.Auth
		email, password := v.email, v.password
		return v, tea.Batch(cmd, func() tea.Msg { return submitSignIn(ctx, a, email, password) })
	}
	return v, cmd
}

func (v *signInView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold("Welcome back!") + "\n")
	b.WriteString("  " + formatter.Dim("Sign in to continue your path.") + "\n\n")
	if v.pending {
		b.WriteString("  " + formatter.Dim("Signing in...") + "\n")
		return b.String()
	}
	b.WriteString(v.form.View())
	if v.message != "" {
		b.WriteString("\n  " + formatter.StyleRed.Render(v.message) + "\n")
	}
	return b.String()
}

// ── sign up ──────────────────────────────────────────────────────────────────

type signUpView struct {
	state   *SharedState
	form    *huh.Form
	input   domain.SignUpInput
	message string
	pending bool
}

func newSignUpView(state *SharedState) *signUpView {
	v := &signUpView{state: state}
	v.form = v.buildForm()
	return v
}

func (v *signUpView) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&v.input.Name),
			huh.NewInput().Title("E-mail").Value(&v.input.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&v.input.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&v.input.ConfirmPassword),
		),
	).WithTheme(devlingoHuhTheme()).WithShowHelp(false)
}

func (v *signUpView) ID() ViewID    { return ViewSignUp }
func (v *signUpView) Title() string { return "Create account" }

func (v *signUpView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "sign in instead")),
	}
}

func (v *signUpView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *signUpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authFailedMsg:
		v.message = msg.message
		v.input.Password, v.input.ConfirmPassword = "", ""
		v.pending = false
		v.form = v.buildForm()
		return v, v.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return v, replaceView(newSignInView(v.state, v.input.Email))
		}
	}

	if v.pending {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		v.pending = true
		ctx, a, in := v.state.Ctx, v.state.App.Auth, v.input
		return v, tea.Batch(cmd, func() tea.Msg { return submitSignUp(ctx, a, in) })
	}
	return v, cmd
}

func (v *signUpView) View() string {
	var b strings.Builder
	b.WriteString("\n  " + formatter.Bold("Create your account") + "\n")
	b.WriteString("  " + formatter.Dim("Your progress is saved on this device.") + "\n\n")
	if v.pending {
		b.WriteString("  " + formatter.Dim("Creating account...") + "\n")
		return b.String()
	}
	b.WriteString(v.form.View())
	if v.message != "" {
		b.WriteString("\n  " + formatter.StyleRed.Render(v.message) + "\n")
	}
	return b.String()
}
