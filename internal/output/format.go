// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"taskhub/internal/model"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"
)

var (
	urgent  = color.New(color.FgRed, color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	late    = color.New(color.FgRed).SprintFunc()
	project = color.New(color.FgCyan).SprintFunc()
	theme   = color.New(color.FgBlue).SprintFunc()

	tagPalette = []*color.Color{
		color.New(color.FgGreen),
		color.New(color.FgYellow),
		color.New(color.FgMagenta),
		color.New(color.FgCyan),
		color.New(color.FgHiGreen),
		color.New(color.FgHiYellow),
		color.New(color.FgHiMagenta),
		color.New(color.FgHiBlue),
	}
)

// FormatTask formats a task line.
// Format: "{N:>4}  [ ] P1 {TITLE}" followed by project, themes, tags, due
// date and subtask progress when present.
func FormatTask(w io.Writer, num int, t model.Task, now time.Time) {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	prio := string(t.Priority)
	if t.Priority == model.P0 {
		prio = urgent(prio)
	}
	title := normalizeTitle(t.Title)
	if t.Completed {
		title = faint(title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4d  %s %s %s", num, box, prio, title)
	if t.Project != "" {
		b.WriteString("  " + project("@"+t.Project))
	}
	for _, th := range t.Themes {
		b.WriteString(" " + theme("+"+th))
	}
	for _, tag := range t.Tags {
		b.WriteString(" " + TagLabel(tag))
	}
	if t.DueDate != nil {
		due := "due " + FormatDate(*t.DueDate, now)
		if !t.Completed && isOverdue(*t.DueDate, now) {
			due = late(due)
		}
		b.WriteString("  " + due)
	}
	if len(t.Subtasks) > 0 {
		p := model.SubtaskProgress(t.Subtasks)
		fmt.Fprintf(&b, "  (%d/%d)", p.Completed, p.Total)
	}
	if t.GitHubIssueNumber > 0 {
		fmt.Fprintf(&b, "  #%d", t.GitHubIssueNumber)
	}
	fmt.Fprintln(w, b.String())
}

// FormatRecurring formats a recurring task line. The box is checked when
// the task was done today.
func FormatRecurring(w io.Writer, num int, r model.RecurringTask, now time.Time) {
	box := "[ ]"
	today := model.DayKey(now)
	for _, day := range r.Completions {
		if day == today {
			box = "[x]"
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4d  %s %s  %s", num, box, normalizeTitle(r.Title), r.Frequency)
	if r.Project != "" {
		b.WriteString("  " + project("@"+r.Project))
	}
	fmt.Fprintf(&b, "  %d done", len(r.Completions))
	fmt.Fprintln(w, b.String())
}

// FormatSubtask formats a subtask line with its 1-based position.
func FormatSubtask(w io.Writer, pos int, s model.Subtask) {
	box := "[ ]"
	if s.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "    %2d  %s %s\n", pos, box, normalizeTitle(s.Title))
	if notes := strings.TrimSpace(s.Notes); notes != "" {
		fmt.Fprintf(w, "          %s\n", faint(notes))
	}
}

// FormatProgress formats a subtask progress summary line.
func FormatProgress(w io.Writer, p model.Progress) {
	fmt.Fprintf(w, "Progress: %d/%d complete (%d%%)\n", p.Completed, p.Total, p.Percentage)
}

// FormatProject formats a project with its task count and themes.
func FormatProject(w io.Writer, name string, themes []string, tasks int) {
	fmt.Fprintf(w, "%s (%d)\n", project(name), tasks)
	for _, th := range themes {
		fmt.Fprintf(w, "  %s\n", th)
	}
}

// FormatTagStat formats a tag with its usage count.
func FormatTagStat(w io.Writer, s model.TagStat) {
	fmt.Fprintf(w, "%s (%d)\n", TagLabel(s.Name), s.TaskCount)
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, normalizeListTitle(title))
	fmt.Fprintln(w, ListSeparator)
}

// TagLabel renders "#name" in the color assigned to name.
func TagLabel(name string) string {
	c := tagPalette[model.TagColor(name, len(tagPalette))]
	return c.Sprint("#" + name)
}

// FormatDate renders a due date relative to now: "today", "tomorrow",
// "Mon Jan 2" within the current year, "2006-01-02" otherwise.
func FormatDate(due, now time.Time) string {
	due = due.In(now.Location())
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case day.Equal(today):
		return "today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "tomorrow"
	case due.Year() == now.Year():
		return due.Format("Mon Jan 2")
	}
	return due.Format(time.DateOnly)
}

func isOverdue(due, now time.Time) bool {
	y, m, d := now.Date()
	return due.In(now.Location()).Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeListTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
