// Package model defines the task Document persisted as a single JSON file and
// the in-memory operations that mutate it.
//
// JSON field names match the document written by the web client, so a file
// edited by either side stays readable by the other.
package model

import (
	"encoding/json"
	"slices"
	"time"
)

// MaxTagsPerTask is the cap on tags attached to one task.
const MaxTagsPerTask = 3

// Priority is a task priority.
type Priority string

const (
	P0 Priority = "P0"
	P1 Priority = "P1"
)

// Frequency is how often a recurring task is expected to be done.
type Frequency string

const (
	Daily  Frequency = "daily"
	Weekly Frequency = "weekly"
)

// Task is a single to-do item.
//
// CompletedAt is non-nil iff Completed is true. Themes are only meaningful
// when Project is set. The empty Project is written as JSON null.
//
// The optional keys (tags, description, subtasks, githubIssueNumber, points)
// are written when the task has a value for them or when they were present
// in the loaded document, so a save keeps the keys it was given. A nil slice
// means the key was absent.
type Task struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Project     string     `json:"project"`
	Themes      []string   `json:"themes"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"dueDate"`
	Created     time.Time  `json:"created"`

	// Written by other client variants; carried so a save never drops them.
	Description       string    `json:"description"`
	Subtasks          []Subtask `json:"subtasks"`
	GitHubIssueNumber int       `json:"githubIssueNumber"`
	Points            *int      `json:"points,omitempty"`

	// zero-valued scalar keys that were present when loaded
	keep keptKeys
}

type keptKeys uint8

const (
	keepDescription keptKeys = 1 << iota
	keepIssue
)

// MarshalJSON writes an empty project as null and leaves out optional keys
// the task never had.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return json.Marshal(struct {
		plain
		Project           *string    `json:"project"`
		Tags              *[]string  `json:"tags,omitempty"`
		Description       *string    `json:"description,omitempty"`
		Subtasks          *[]Subtask `json:"subtasks,omitempty"`
		GitHubIssueNumber *int       `json:"githubIssueNumber,omitempty"`
	}{
		plain:             plain(t),
		Project:           nullable(t.Project),
		Tags:              present(t.Tags),
		Description:       kept(t.Description, t.keep&keepDescription != 0),
		Subtasks:          present(t.Subtasks),
		GitHubIssueNumber: kept(t.GitHubIssueNumber, t.keep&keepIssue != 0),
	})
}

// UnmarshalJSON records which zero-valued optional keys were present.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var raw struct {
		plain
		Description       *string `json:"description"`
		GitHubIssueNumber *int    `json:"githubIssueNumber"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Task(raw.plain)
	t.keep = 0
	if raw.Description != nil {
		t.Description = *raw.Description
		if t.Description == "" {
			t.keep |= keepDescription
		}
	}
	if raw.GitHubIssueNumber != nil {
		t.GitHubIssueNumber = *raw.GitHubIssueNumber
		if t.GitHubIssueNumber == 0 {
			t.keep |= keepIssue
		}
	}
	return nil
}

func present[T any](s []T) *[]T {
	if s == nil {
		return nil
	}
	return &s
}

func kept[T comparable](v T, keep bool) *T {
	var zero T
	if v == zero && !keep {
		return nil
	}
	return &v
}

// RecurringTask is a habit-style task checked off per calendar day.
// Completions holds "2006-01-02" day keys without duplicates.
type RecurringTask struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Project     string    `json:"project"`
	Frequency   Frequency `json:"frequency"`
	Completions []string  `json:"completions"`
	Created     time.Time `json:"created"`
}

// MarshalJSON writes an empty project as null.
func (r RecurringTask) MarshalJSON() ([]byte, error) {
	type plain RecurringTask
	return json.Marshal(struct {
		plain
		Project *string `json:"project"`
	}{plain(r), nullable(r.Project)})
}

// Subtask is a checklist item under a task.
type Subtask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	Notes       string     `json:"notes"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Document is the whole persisted dataset.
type Document struct {
	Tasks          []Task              `json:"tasks"`
	RecurringTasks []RecurringTask     `json:"recurringTasks"`
	Projects       []string            `json:"projects"`
	Themes         map[string][]string `json:"themes"`
}

// NewDocument returns an empty document seeded with the given taxonomy.
// The seed is copied.
func NewDocument(projects []string, themes map[string][]string) Document {
	return Document{
		Tasks:          []Task{},
		RecurringTasks: []RecurringTask{},
		Projects:       slices.Clone(projects),
		Themes:         cloneThemes(themes),
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := Document{
		Projects: slices.Clone(d.Projects),
		Themes:   cloneThemes(d.Themes),
	}
	if d.Tasks != nil {
		c.Tasks = make([]Task, len(d.Tasks))
		for i, t := range d.Tasks {
			c.Tasks[i] = t.clone()
		}
	}
	if d.RecurringTasks != nil {
		c.RecurringTasks = make([]RecurringTask, len(d.RecurringTasks))
		for i, r := range d.RecurringTasks {
			r.Completions = slices.Clone(r.Completions)
			c.RecurringTasks[i] = r
		}
	}
	return c
}

func (t Task) clone() Task {
	t.Themes = slices.Clone(t.Themes)
	t.Tags = slices.Clone(t.Tags)
	t.CompletedAt = cloneTime(t.CompletedAt)
	t.DueDate = cloneTime(t.DueDate)
	if t.Points != nil {
		p := *t.Points
		t.Points = &p
	}
	if t.Subtasks != nil {
		subs := make([]Subtask, len(t.Subtasks))
		for i, s := range t.Subtasks {
			s.CompletedAt = cloneTime(s.CompletedAt)
			subs[i] = s
		}
		t.Subtasks = subs
	}
	return t
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneThemes(themes map[string][]string) map[string][]string {
	if themes == nil {
		return nil
	}
	c := make(map[string][]string, len(themes))
	for k, v := range themes {
		c[k] = slices.Clone(v)
	}
	return c
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
