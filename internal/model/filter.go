package model

import (
	"fmt"
	"slices"
	"time"
)

// View selects a predefined subset of tasks.
type View string

const (
	ViewAll        View = "all"
	ViewToday      View = "today"
	ViewOverdue    View = "overdue"
	ViewUnassigned View = "unassigned"
	ViewSummary    View = "summary"
)

// ParseView validates a view name. The empty string means ViewAll.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case "":
		return ViewAll, nil
	case ViewAll, ViewToday, ViewOverdue, ViewUnassigned, ViewSummary:
		return v, nil
	}
	return "", fmt.Errorf("unknown view: %s", s)
}

// FilterOptions narrows a task list.
type FilterOptions struct {
	View          View
	ShowCompleted bool
	Priority      Priority // empty means any
	Project       string   // empty means any
	Tags          []string // OR semantics, empty means any
	Now           time.Time
}

// Filter returns the indexes into tasks that pass opts, in order.
//
// The summary view ignores ShowCompleted: it lists tasks due today that were
// completed today.
func Filter(tasks []Task, opts FilterOptions) []int {
	today := startOfDay(opts.Now)
	tagFilter := normalizeTags(opts.Tags)

	var out []int
	for i, t := range tasks {
		if opts.View != ViewSummary && !opts.ShowCompleted && t.Completed {
			continue
		}
		if opts.Priority != "" && t.Priority != opts.Priority {
			continue
		}
		if opts.Project != "" && t.Project != opts.Project {
			continue
		}
		if len(tagFilter) > 0 && !hasAnyTag(t, tagFilter) {
			continue
		}
		if !inView(t, opts.View, today) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func inView(t Task, v View, today time.Time) bool {
	switch v {
	case ViewToday:
		return t.DueDate != nil && sameDay(*t.DueDate, today)
	case ViewOverdue:
		return t.DueDate == nil || startOfDay(t.DueDate.In(today.Location())).Before(today)
	case ViewUnassigned:
		return t.Project == "" || len(t.Themes) == 0
	case ViewSummary:
		return t.DueDate != nil && sameDay(*t.DueDate, today) &&
			t.Completed && t.CompletedAt != nil && sameDay(*t.CompletedAt, today)
	}
	return true
}

func hasAnyTag(t Task, tags []string) bool {
	for _, tag := range t.Tags {
		if slices.Contains(tags, NormalizeTag(tag)) {
			return true
		}
	}
	return false
}

// FilterRecurring returns the indexes of recurring tasks in project, or all
// of them when project is empty.
func FilterRecurring(tasks []RecurringTask, project string) []int {
	var out []int
	for i, r := range tasks {
		if project == "" || r.Project == project {
			out = append(out, i)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(t, day time.Time) bool {
	return startOfDay(t.In(day.Location())).Equal(day)
}
