package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	// ErrTaskNotFound is returned when no task has the requested id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyTitle is returned when a task would be created or renamed
	// with a blank title.
	ErrEmptyTitle = errors.New("title required")

	// ErrTooManyTags is returned when a task would carry more than
	// MaxTagsPerTask tags.
	ErrTooManyTags = errors.New("too many tags")
)

// DayKey formats t as the calendar-day key used in recurring completions.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// NewTask returns an open task created at now.
func NewTask(title string, now time.Time) Task {
	return Task{
		ID:       NewID(),
		Title:    title,
		Priority: P1,
		Themes:   []string{},
		Created:  now,
	}
}

// NewRecurringTask returns a daily recurring task created at now.
func NewRecurringTask(title string, now time.Time) RecurringTask {
	return RecurringTask{
		ID:          NewID(),
		Title:       title,
		Frequency:   Daily,
		Completions: []string{},
		Created:     now,
	}
}

// TaskIndex returns the position of the task with the given id, or -1.
func (d *Document) TaskIndex(id ID) int {
	return slices.IndexFunc(d.Tasks, func(t Task) bool { return t.ID == id })
}

// Task returns a pointer to the task with the given id.
func (d *Document) Task(id ID) (*Task, error) {
	i := d.TaskIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return &d.Tasks[i], nil
}

// AddTask appends t after checking it against the document taxonomy.
func (d *Document) AddTask(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if err := d.checkTaskRefs(t); err != nil {
		return err
	}
	d.Tasks = append(d.Tasks, t)
	return nil
}

// ToggleTask flips the completion state of a task, stamping or clearing
// CompletedAt.
func (d *Document) ToggleTask(id ID, now time.Time) error {
	t, err := d.Task(id)
	if err != nil {
		return err
	}
	t.Completed = !t.Completed
	if t.Completed {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	return nil
}

// DeleteTask removes a task.
func (d *Document) DeleteTask(id ID) error {
	i := d.TaskIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	d.Tasks = slices.Delete(d.Tasks, i, i+1)
	return nil
}

// Reorder moves a task to newIndex, clamped to the sequence bounds.
func (d *Document) Reorder(id ID, newIndex int) error {
	i := d.TaskIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t := d.Tasks[i]
	d.Tasks = slices.Delete(d.Tasks, i, i+1)
	newIndex = max(0, min(newIndex, len(d.Tasks)))
	d.Tasks = slices.Insert(d.Tasks, newIndex, t)
	return nil
}

// TaskPatch describes an edit of a task. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Priority    *Priority
	Project     *string // "" clears the project and its themes
	Themes      []string
	Tags        []string
	DueDate     *time.Time
	ClearDue    bool
	Description *string
}

// UpdateTask applies p to the task with the given id. The task is left
// untouched if the result would break a document invariant.
func (d *Document) UpdateTask(id ID, p TaskPatch) error {
	t, err := d.Task(id)
	if err != nil {
		return err
	}
	next := t.clone()

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return ErrEmptyTitle
		}
		next.Title = title
	}
	if p.Priority != nil {
		if *p.Priority != P0 && *p.Priority != P1 {
			return fmt.Errorf("invalid priority: %s", *p.Priority)
		}
		next.Priority = *p.Priority
	}
	if p.Project != nil {
		project, err := d.canonicalProject(*p.Project)
		if err != nil {
			return err
		}
		if project != next.Project {
			next.Themes = []string{}
		}
		next.Project = project
	}
	if p.Themes != nil {
		next.Themes = slices.Clone(p.Themes)
	}
	if p.Tags != nil {
		next.Tags = normalizeTags(p.Tags)
	}
	if p.ClearDue {
		next.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		next.DueDate = &due
	}
	if p.Description != nil {
		next.Description = *p.Description
	}

	if err := d.checkTaskRefs(next); err != nil {
		return err
	}
	*t = next
	return nil
}

// checkTaskRefs verifies a task against the project and theme vocabulary
// and the tag cap.
func (d *Document) checkTaskRefs(t Task) error {
	if t.Project == "" {
		if len(t.Themes) > 0 {
			return fmt.Errorf("%w: themes require a project", ErrUnknownTheme)
		}
	} else {
		if !slices.Contains(d.Projects, t.Project) {
			return fmt.Errorf("%w: %s", ErrUnknownProject, t.Project)
		}
		for _, theme := range t.Themes {
			if !slices.Contains(d.Themes[t.Project], theme) {
				return fmt.Errorf("%w: %s (project %s)", ErrUnknownTheme, theme, t.Project)
			}
		}
	}
	if len(t.Tags) > MaxTagsPerTask {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyTags, len(t.Tags), MaxTagsPerTask)
	}
	return nil
}

// RecurringIndex returns the position of the recurring task with the given
// id, or -1.
func (d *Document) RecurringIndex(id ID) int {
	return slices.IndexFunc(d.RecurringTasks, func(r RecurringTask) bool { return r.ID == id })
}

// AddRecurring appends a recurring task.
func (d *Document) AddRecurring(r RecurringTask) error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if r.Project != "" && !slices.Contains(d.Projects, r.Project) {
		return fmt.Errorf("%w: %s", ErrUnknownProject, r.Project)
	}
	d.RecurringTasks = append(d.RecurringTasks, r)
	return nil
}

// ToggleRecurring adds today's day key to the completions of a recurring
// task, or removes it if already present. It reports whether the task is
// now marked done for today.
func (d *Document) ToggleRecurring(id ID, now time.Time) (bool, error) {
	i := d.RecurringIndex(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	r := &d.RecurringTasks[i]
	today := DayKey(now)
	if j := slices.Index(r.Completions, today); j >= 0 {
		r.Completions = slices.Delete(slices.Clone(r.Completions), j, j+1)
		return false, nil
	}
	r.Completions = append(slices.Clone(r.Completions), today)
	return true, nil
}

// DeleteRecurring removes a recurring task.
func (d *Document) DeleteRecurring(id ID) error {
	i := d.RecurringIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	d.RecurringTasks = slices.Delete(d.RecurringTasks, i, i+1)
	return nil
}

// LinkIssue records the GitHub issue a task's subtasks sync to. Zero
// unlinks the task.
func (d *Document) LinkIssue(id ID, issue int) error {
	if issue < 0 {
		return fmt.Errorf("invalid issue number %d", issue)
	}
	t, err := d.Task(id)
	if err != nil {
		return err
	}
	t.GitHubIssueNumber = issue
	return nil
}
