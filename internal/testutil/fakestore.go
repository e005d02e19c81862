// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskhub/internal/model"
	"taskhub/internal/service"
)

// FakeStore is an in-memory service.Store. It enforces the version tag
// precondition the way the remote does: a Save whose tag is not the current
// one fails with SaveFailed wrapping service.ErrConflict.
type FakeStore struct {
	mu    sync.Mutex
	doc   *model.Document
	rev   int
	saves int

	// Credentials records the credential of every call.
	Credentials []string

	// Error injection for testing
	LoadErr error
	SaveErr error
}

// NewFakeStore returns a store holding doc at tag "v1", or an empty store
// whose Load reports service.ErrNotFound when doc is nil.
func NewFakeStore(doc *model.Document) *FakeStore {
	f := &FakeStore{}
	if doc != nil {
		c := doc.Clone()
		f.doc = &c
		f.rev = 1
	}
	return f
}

func (f *FakeStore) tag() service.VersionTag {
	if f.rev == 0 {
		return ""
	}
	return service.VersionTag(fmt.Sprintf("v%d", f.rev))
}

// Load implements service.Store.
func (f *FakeStore) Load(ctx context.Context, credential string) (model.Document, service.VersionTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Credentials = append(f.Credentials, credential)

	if f.LoadErr != nil {
		return model.Document{}, "", service.LoadError(f.LoadErr)
	}
	if f.doc == nil {
		return model.Document{}, "", service.LoadError(service.ErrNotFound)
	}
	return f.doc.Clone(), f.tag(), nil
}

// Save implements service.Store.
func (f *FakeStore) Save(ctx context.Context, credential string, tag service.VersionTag, doc model.Document) (service.VersionTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Credentials = append(f.Credentials, credential)

	if f.SaveErr != nil {
		return "", service.SaveError(f.SaveErr)
	}
	if tag != f.tag() {
		return "", service.SaveError(fmt.Errorf("%w: have %q, got %q", service.ErrConflict, f.tag(), tag))
	}
	c := doc.Clone()
	f.doc = &c
	f.rev++
	f.saves++
	return f.tag(), nil
}

// Document returns a copy of the stored document, or the zero Document when
// nothing was stored.
func (f *FakeStore) Document() model.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return model.Document{}
	}
	return f.doc.Clone()
}

// Tag returns the current version tag.
func (f *FakeStore) Tag() service.VersionTag {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tag()
}

// Saves returns the number of successful saves.
func (f *FakeStore) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// Bump simulates another client writing the document.
func (f *FakeStore) Bump() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rev++
}
