package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/devlingo/devlingo/internal/auth"
	"github.com/devlingo/devlingo/internal/cli/formatter"
	"github.com/devlingo/devlingo/internal/domain"
	"github.com/spf13/cobra"
)

var errMissingCredentials = errors.New("missing credentials")

func newSignUpCmd(app *App) *cobra.Command {
	var in domain.SignUpInput

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.ConfirmPassword == "" {
				in.ConfirmPassword = in.Password
			}
			if in.Name == "" || in.Email == "" || in.Password == "" {
				if !app.interactive() {
					return fmt.Errorf("%w: --name, --email and --password are required", errMissingCredentials)
				}
				if err := signUpForm(&in).Run(); err != nil {
					return err
				}
			}

			user, err := app.Auth.SignUp(context.Background(), in)
			if err != nil {
				return errors.New(auth.UserMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Welcome, %s!\n", formatter.StyleGreen.Render("✔"), user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "e-mail address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "password confirmation (defaults to --password)")

	return cmd
}

func newSignInCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to your account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				if !app.interactive() {
					return fmt.Errorf("%w: --email and --password are required", errMissingCredentials)
				}
				if err := signInForm(&email, &password).Run(); err != nil {
					return err
				}
			}

			user, err := app.Auth.SignIn(context.Background(), email, password)
			if err != nil {
				return errors.New(auth.UserMessage(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Signed in as %s\n", formatter.StyleGreen.Render("✔"), user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "e-mail address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func newSignOutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Auth.User() == nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Not signed in."))
				return nil
			}
			// Local state is cleared even when the stored session survives.
			if err := app.Auth.SignOut(context.Background()); err != nil {
				app.logger().Warn("sign-out left a stored session behind", "error", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and their XP",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.requireUser()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProfile(user, app.Auth.UserXP(context.Background())))
			return nil
		},
	}
}

// signInForm builds the standalone sign-in form used outside the TUI.
func signInForm(email, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("E-mail").Value(email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
		),
	).WithTheme(devlingoHuhTheme())
}

func signUpForm(in *domain.SignUpInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&in.Name),
			huh.NewInput().Title("E-mail").Value(&in.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&in.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&in.ConfirmPassword),
		),
	).WithTheme(devlingoHuhTheme())
}
