// Package service defines the backend-agnostic contracts the commands work
// against. Commands never import a remote SDK directly.
package service

import (
	"context"

	"taskhub/internal/model"
)

// VersionTag identifies the remote revision a Document was loaded from. It is
// opaque to callers and must be handed back on the next Save. The empty tag
// means "no remote document yet".
type VersionTag string

// Store persists the whole Document as one remote file.
//
// The credential and version tag are passed on every call; a Store keeps no
// session state between calls. Callers must not overlap two Saves: the store
// neither queues nor serializes them, and it never retries or merges.
type Store interface {
	// Load fetches the current Document and its version tag. Absent
	// collections come back empty and an absent taxonomy comes back as the
	// configured seed. Failures are *SyncError with Kind LoadFailed.
	Load(ctx context.Context, credential string) (model.Document, VersionTag, error)

	// Save replaces the remote Document if its revision still matches tag,
	// and returns the new tag. Failures are *SyncError with Kind SaveFailed.
	Save(ctx context.Context, credential string, tag VersionTag, doc model.Document) (VersionTag, error)
}

// Mirror is a one-way export target for tasks. Nothing is ever read back
// from it into the Document.
type Mirror interface {
	// DefaultList returns the user's default task list.
	DefaultList(ctx context.Context) (TaskList, error)

	// ResolveList finds a list by name (case-insensitive, trimmed).
	// Returns error if not found or ambiguous.
	ResolveList(ctx context.Context, name string) (TaskList, error)

	// ListTasks returns every task in a list, completed ones included.
	ListTasks(ctx context.Context, listID string) ([]MirrorTask, error)

	// CreateTask inserts a task into the list.
	CreateTask(ctx context.Context, listID string, task MirrorTask) error

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, listID, taskID string) error
}
