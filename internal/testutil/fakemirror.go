package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"taskhub/internal/service"
)

// DefaultListID is the ID used for the default list.
const DefaultListID = "@default"

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// ErrAmbiguous is returned when multiple matches are found.
var ErrAmbiguous = errors.New("ambiguous")

// FakeMirror is an in-memory implementation of service.Mirror for testing.
type FakeMirror struct {
	mu    sync.RWMutex
	lists []service.TaskList
	tasks map[string][]service.MirrorTask // listID -> tasks
	next  int

	// Error injection for testing
	DefaultListErr  error
	ResolveListErr  error
	ListTasksErr    error
	CreateTaskErr   error
	CompleteTaskErr error
}

// NewFakeMirror creates a new FakeMirror with a default list.
func NewFakeMirror() *FakeMirror {
	return &FakeMirror{
		lists: []service.TaskList{{ID: DefaultListID, Title: "My Tasks", IsDefault: true}},
		tasks: map[string][]service.MirrorTask{DefaultListID: nil},
	}
}

// AddList adds a list to the fake mirror.
func (f *FakeMirror) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
	if _, ok := f.tasks[id]; !ok {
		f.tasks[id] = nil
	}
}

// AddTask adds a task to a list.
func (f *FakeMirror) AddTask(listID string, task service.MirrorTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[listID] = append(f.tasks[listID], task)
}

// Tasks returns a copy of a list's tasks.
func (f *FakeMirror) Tasks(listID string) []service.MirrorTask {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.MirrorTask(nil), f.tasks[listID]...)
}

// DefaultList implements service.Mirror.
func (f *FakeMirror) DefaultList(ctx context.Context) (service.TaskList, error) {
	if f.DefaultListErr != nil {
		return service.TaskList{}, f.DefaultListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, l := range f.lists {
		if l.IsDefault {
			return l, nil
		}
	}
	return service.TaskList{}, errors.New("no default list")
}

// ResolveList implements service.Mirror.
func (f *FakeMirror) ResolveList(ctx context.Context, name string) (service.TaskList, error) {
	if f.ResolveListErr != nil {
		return service.TaskList{}, f.ResolveListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	name = strings.TrimSpace(name)
	var matches []service.TaskList
	for _, l := range f.lists {
		if strings.EqualFold(strings.TrimSpace(l.Title), name) {
			matches = append(matches, l)
		}
	}

	switch len(matches) {
	case 0:
		return service.TaskList{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return service.TaskList{}, ErrAmbiguous
	}
}

// ListTasks implements service.Mirror.
func (f *FakeMirror) ListTasks(ctx context.Context, listID string) ([]service.MirrorTask, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]service.MirrorTask(nil), tasks...), nil
}

// CreateTask implements service.Mirror.
func (f *FakeMirror) CreateTask(ctx context.Context, listID string, task service.MirrorTask) error {
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.tasks[listID]; !ok {
		return ErrNotFound
	}
	f.next++
	task.ID = fmt.Sprintf("m%d", f.next)
	if task.Status == "" {
		task.Status = service.StatusNeedsAction
	}
	f.tasks[listID] = append(f.tasks[listID], task)
	return nil
}

// CompleteTask implements service.Mirror.
func (f *FakeMirror) CompleteTask(ctx context.Context, listID, taskID string) error {
	if f.CompleteTaskErr != nil {
		return f.CompleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return ErrNotFound
	}
	for i, t := range tasks {
		if t.ID == taskID {
			tasks[i].Status = service.StatusCompleted
			return nil
		}
	}
	return ErrNotFound
}
