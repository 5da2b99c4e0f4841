package cli

import (
	"context"
	"fmt"

	"github.com/devlingo/devlingo/internal/auth"
	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/logger"
	"github.com/devlingo/devlingo/internal/service"
	"github.com/spf13/cobra"
)

// Authenticator is the slice of auth.Context the commands and views use.
type Authenticator interface {
	User() *domain.User
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	SignUp(ctx context.Context, in domain.SignUpInput) (*domain.User, error)
	SignOut(ctx context.Context) error
	UserXP(ctx context.Context) int
	OnAuthChange(fn auth.Listener) func()
}

// App holds references to all services used by CLI commands and the TUI.
type App struct {
	Auth     Authenticator
	Units    service.UnitService
	Lessons  service.LessonService
	Progress service.ProgressService
	Import   service.ImportService
	Log      *logger.Logger

	// Lives is the number of mistakes allowed per lesson attempt.
	Lives int

	// IsInteractive reports whether stdin is a terminal. The bare root
	// command launches the TUI only when it returns true.
	IsInteractive func() bool
}

func (a *App) logger() *logger.Logger {
	if a.Log == nil {
		return logger.NewNop()
	}
	return a.Log
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// requireUser returns the signed-in user or an error telling the user how to sign in.
func (a *App) requireUser() (*domain.User, error) {
	u := a.Auth.User()
	if u == nil {
		return nil, fmt.Errorf("%w: run `devlingo signin` first", auth.ErrNotAuthenticated)
	}
	return u, nil
}

// NewRootCmd creates the top-level "devlingo" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "devlingo",
		Short:         "Bite-sized lessons and quizzes in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return RunTUI(app)
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().AddFlagSet(GlobalFlags())

	root.AddCommand(
		newSignUpCmd(app),
		newSignInCmd(app),
		newSignOutCmd(app),
		newWhoAmICmd(app),
		newUnitsCmd(app),
		newLessonCmd(app),
		newXPCmd(app),
		newHistoryCmd(app),
		newImportCmd(app),
		newPlayCmd(app),
	)

	return root
}
