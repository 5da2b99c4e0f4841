package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status string // "completed", "available" or "locked"; anything else renders plain
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Completed items get a green ✔,
// available items an amber ▶ and locked items are dimmed. Detail badges are
// right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		statusPrefix := ""
		switch strings.ToLower(item.Status) {
		case "completed":
			statusPrefix = StyleGreen.Render("✔ ")
			title = Dim(title)
		case "available":
			statusPrefix = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		case "locked":
			statusPrefix = Dim("✖ ")
			title = Dim(title)
		}

		lines[idx].content = prefix + statusPrefix + title
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		if w := lipgloss.Width(lines[idx].content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		b.WriteString(li.content)
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			b.WriteString(strings.Repeat(" ", max(pad, 0)) + "  " + li.badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}
