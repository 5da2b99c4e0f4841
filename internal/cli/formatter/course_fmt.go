package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/devlingo/devlingo/internal/domain"
)

// FormatUnitPath renders the learner's path as a tree of units and lessons.
func FormatUnitPath(units []domain.Unit) string {
	if len(units) == 0 {
		return Dim("No units yet. Import a course with `devlingo import FILE`.") + "\n"
	}

	var items []TreeItem
	for _, u := range units {
		done := 0
		for _, l := range u.Lessons {
			if l.Completed {
				done++
			}
		}
		items = append(items, TreeItem{
			Title:  u.Title,
			Status: string(u.Status),
			Detail: fmt.Sprintf("%d/%d", done, len(u.Lessons)),
		})
		for i, l := range u.Lessons {
			status := "locked"
			switch {
			case l.Completed:
				status = "completed"
			case u.Status != domain.UnitLocked:
				status = "available"
			}
			items = append(items, TreeItem{
				Title:  l.Title + "  " + Dim(l.ID),
				Level:  1,
				IsLast: i == len(u.Lessons)-1,
				Status: status,
				Detail: fmt.Sprintf("%d XP", l.XP),
			})
		}
	}

	return Header("Your path") + "\n" + RenderTree(items)
}

// FormatLesson renders a lesson's questions. With showAnswers the correct
// options are marked.
func FormatLesson(l *domain.Lesson, showAnswers bool) string {
	var b strings.Builder
	b.WriteString(Header(l.Title) + "\n")
	if l.Description != "" {
		b.WriteString(Dim(l.Description) + "\n")
	}
	status := Dim("not completed")
	if l.Completed {
		status = StyleGreen.Render("completed")
	}
	fmt.Fprintf(&b, "%s  %s  %s\n\n", FormatXP(l.XP), status, Dim(fmt.Sprintf("%d questions", len(l.Questions))))

	for i, q := range l.Questions {
		fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render(strconv.Itoa(i+1)+"."), Bold(q.Text))
		for j, o := range q.Options {
			marker := "  "
			if showAnswers && o.IsCorrect {
				marker = StyleGreen.Render("✔ ")
			}
			fmt.Fprintf(&b, "   %s%s %s\n", marker, Dim(string(rune('a'+j))+")"), o.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHistory renders attempts newest first. titles maps lesson ids to
// titles; unknown ids fall back to the truncated id.
func FormatHistory(attempts []*domain.Attempt, titles map[string]string, now time.Time) string {
	if len(attempts) == 0 {
		return Dim("No attempts yet.") + "\n"
	}
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		title, ok := titles[a.LessonID]
		if !ok {
			title = TruncID(a.LessonID)
		}
		rows = append(rows, []string{
			HumanTimestamp(a.CreatedAt, now),
			title,
			OutcomePill(a.Outcome),
			fmt.Sprintf("%d/%d", a.Correct, a.Correct+a.Incorrect),
			AccuracyStyle(a.Accuracy).Render(fmt.Sprintf("%d%%", a.Accuracy)),
		})
	}
	return RenderTable([]string{"WHEN", "LESSON", "OUTCOME", "CORRECT", "ACCURACY"}, rows)
}

// FormatProfile renders the signed-in user's name, e-mail and XP.
func FormatProfile(u *domain.User, xp int) string {
	return fmt.Sprintf("%s %s\n%s\n", Bold(u.Name), Dim("<"+u.Email+">"), FormatXP(xp))
}
