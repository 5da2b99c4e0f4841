package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/devlingo/devlingo/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// UnitStatusPill returns a colored indicator such as "● Available".
func UnitStatusPill(status domain.UnitStatus) string {
	switch status {
	case domain.UnitCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.UnitAvailable:
		return StyleYellow.Render("● Available")
	case domain.UnitLocked:
		return StyleDim.Render("✖ Locked")
	default:
		return StyleDim.Render(string(status))
	}
}

// OutcomePill returns a colored label for an attempt outcome.
func OutcomePill(outcome domain.AttemptOutcome) string {
	switch outcome {
	case domain.OutcomeSuccess:
		return StyleGreen.Render("Flawless")
	case domain.OutcomeResult:
		return StyleYellow.Render("Finished")
	case domain.OutcomeQuit:
		return StyleDim.Render("Left")
	default:
		return StyleDim.Render(string(outcome))
	}
}

// AccuracyStyle colors an accuracy percentage: green from 80, yellow from 50.
func AccuracyStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 80:
		return StyleGreen
	case pct >= 50:
		return StyleYellow
	default:
		return StyleRed
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
