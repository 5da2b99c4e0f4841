package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/devlingo/devlingo/internal/cli/formatter"
	"github.com/devlingo/devlingo/internal/service"
	"github.com/spf13/cobra"
)

func newUnitsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "Show your unit path with lesson status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			units := app.Units.ListUnits(context.Background())
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUnitPath(units))
			return nil
		},
	}
}

func newLessonCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Inspect lessons",
	}
	cmd.AddCommand(newLessonShowCmd(app))
	return cmd
}

func newLessonShowCmd(app *App) *cobra.Command {
	var answers bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a lesson's questions and options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			lesson := app.Lessons.GetLesson(context.Background(), args[0])
			if lesson == nil {
				return fmt.Errorf("lesson %s not found", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLesson(lesson, answers))
			return nil
		},
	}

	cmd.Flags().BoolVar(&answers, "answers", false, "mark the correct options")
	return cmd
}

func newXPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "xp",
		Short: "Show the XP you have earned",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatXP(app.Auth.UserXP(context.Background())))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your recent lesson attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireUser(); err != nil {
				return err
			}
			ctx := context.Background()
			attempts, err := app.Progress.History(ctx, limit)
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}

			titles := make(map[string]string)
			for _, u := range app.Units.ListUnits(ctx) {
				for _, l := range u.Lessons {
					titles[l.ID] = l.Title
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(attempts, titles, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of attempts to show (0 for all)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import course content from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := formatter.WithSpinner(cmd.ErrOrStderr(), app.interactive(), "Importing course...",
				func() (*service.ImportResult, error) {
					return app.Import.ImportCourse(context.Background(), args[0])
				})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d units, %d lessons, %d questions and %d options.\n",
				formatter.StyleGreen.Render("✔"),
				result.UnitCount, result.LessonCount, result.QuestionCount, result.OptionCount)
			return nil
		},
	}
}

func newPlayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the interactive lesson player",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunTUI(app)
		},
	}
}
