package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrSubtaskNotFound is returned for an out-of-range subtask position.
var ErrSubtaskNotFound = errors.New("subtask not found")

// NewSubtask returns an open subtask at the given order.
func NewSubtask(title string, order int, now time.Time) Subtask {
	return Subtask{
		ID:        "subtask_" + uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Order:     order,
		CreatedAt: now,
	}
}

// Progress summarizes subtask completion.
type Progress struct {
	Completed  int
	Total      int
	Percentage int
}

// SubtaskProgress counts completed subtasks. Percentage is rounded to the
// nearest integer and is 0 for an empty list.
func SubtaskProgress(subtasks []Subtask) Progress {
	p := Progress{Total: len(subtasks)}
	for _, s := range subtasks {
		if s.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// SortedSubtasks returns a copy of subtasks ordered by Order.
func SortedSubtasks(subtasks []Subtask) []Subtask {
	out := slices.Clone(subtasks)
	slices.SortStableFunc(out, func(a, b Subtask) int { return a.Order - b.Order })
	return out
}

// AddSubtask appends a subtask to the task with the given id.
func (d *Document) AddSubtask(id ID, title string, now time.Time) (Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return Subtask{}, ErrEmptyTitle
	}
	t, err := d.Task(id)
	if err != nil {
		return Subtask{}, err
	}
	s := NewSubtask(title, len(t.Subtasks), now)
	t.Subtasks = append(t.Subtasks, s)
	return s, nil
}

// subtaskAt resolves a 1-based position in display (Order) order to an
// index into t.Subtasks.
func subtaskAt(t *Task, pos int) (int, error) {
	sorted := SortedSubtasks(t.Subtasks)
	if pos < 1 || pos > len(sorted) {
		return -1, fmt.Errorf("%w: %d", ErrSubtaskNotFound, pos)
	}
	want := sorted[pos-1].ID
	return slices.IndexFunc(t.Subtasks, func(s Subtask) bool { return s.ID == want }), nil
}

// ToggleSubtask flips the completion of the subtask at 1-based position pos.
func (d *Document) ToggleSubtask(id ID, pos int, now time.Time) error {
	t, err := d.Task(id)
	if err != nil {
		return err
	}
	i, err := subtaskAt(t, pos)
	if err != nil {
		return err
	}
	s := &t.Subtasks[i]
	s.Completed = !s.Completed
	if s.Completed {
		at := now
		s.CompletedAt = &at
	} else {
		s.CompletedAt = nil
	}
	return nil
}

// UpdateSubtask changes the title and notes of the subtask at pos. Nil
// arguments are left unchanged.
func (d *Document) UpdateSubtask(id ID, pos int, title, notes *string) error {
	t, err := d.Task(id)
	if err != nil {
		return err
	}
	i, err := subtaskAt(t, pos)
	if err != nil {
		return err
	}
	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return ErrEmptyTitle
		}
		t.Subtasks[i].Title = strings.TrimSpace(*title)
	}
	if notes != nil {
		t.Subtasks[i].Notes = *notes
	}
	return nil
}

// DeleteSubtask removes the subtask at pos and renumbers the rest.
func (d *Document) DeleteSubtask(id ID, pos int) error {
	t, err := d.Task(id)
	if err != nil {
		return err
	}
	if _, err := subtaskAt(t, pos); err != nil {
		return err
	}
	sorted := SortedSubtasks(t.Subtasks)
	sorted = slices.Delete(sorted, pos-1, pos)
	renumber(sorted)
	t.Subtasks = sorted
	return nil
}

// ReorderSubtasks moves the subtask at 1-based position from to position
// to and renumbers Order.
func (d *Document) ReorderSubtasks(id ID, from, to int) error {
	t, err := d.Task(id)
	if err != nil {
		return err
	}
	if _, err := subtaskAt(t, from); err != nil {
		return err
	}
	sorted := SortedSubtasks(t.Subtasks)
	moved := sorted[from-1]
	sorted = slices.Delete(sorted, from-1, from)
	to = max(1, min(to, len(sorted)+1))
	sorted = slices.Insert(sorted, to-1, moved)
	renumber(sorted)
	t.Subtasks = sorted
	return nil
}

func renumber(subtasks []Subtask) {
	for i := range subtasks {
		subtasks[i].Order = i
	}
}
