// Package issuesync mirrors a task's subtasks into the body of its GitHub
// issue as a markdown checklist. The task list is the source of truth; the
// issue is only ever written.
package issuesync

import (
	"fmt"
	"strings"

	"taskhub/internal/model"
)

const (
	sectionHeader = "\n\n---\n\n## Subtasks\n\n"
	sectionMarker = "\n---\n\n## Subtasks"
)

// FormatSubtasks renders subtasks as the checklist section appended to an
// issue body. It returns "" for no subtasks.
func FormatSubtasks(subtasks []model.Subtask) string {
	if len(subtasks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(sectionHeader)
	for _, s := range model.SortedSubtasks(subtasks) {
		box := "[ ]"
		if s.Completed {
			box = "[x]"
		}
		fmt.Fprintf(&b, "- %s %s\n", box, s.Title)
		if notes := strings.TrimSpace(s.Notes); notes != "" {
			fmt.Fprintf(&b, "  - *%s*\n", notes)
		}
	}

	p := model.SubtaskProgress(subtasks)
	fmt.Fprintf(&b, "\n**Progress: %d/%d complete (%d%%)**\n", p.Completed, p.Total, p.Percentage)
	return b.String()
}

// ExtractMainDescription returns body without a previously appended subtask
// section.
func ExtractMainDescription(body string) string {
	i := strings.Index(body, sectionMarker)
	if i < 0 {
		return body
	}
	// The section starts with a blank line; drop the newline the marker
	// search leaves behind.
	return strings.TrimSuffix(body[:i], "\n")
}

// BuildBody replaces any subtask section in current with a fresh rendering
// of subtasks. BuildBody(BuildBody(b, s), s) == BuildBody(b, s).
func BuildBody(current string, subtasks []model.Subtask) string {
	return ExtractMainDescription(current) + FormatSubtasks(subtasks)
}
