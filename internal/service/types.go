package service

import "time"

// MirrorTask is a task as held by a Mirror.
type MirrorTask struct {
	ID     string
	Title  string
	Notes  string
	Due    *time.Time
	Status string // "needsAction" or "completed"
}

// Completed reports whether the mirror considers the task done.
func (t MirrorTask) Completed() bool {
	return t.Status == StatusCompleted
}

// Mirror task statuses.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// TaskList represents a mirror task list.
type TaskList struct {
	ID        string
	Title     string
	IsDefault bool
}
