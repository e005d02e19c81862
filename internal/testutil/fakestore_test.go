package testutil

import (
	"context"
	"errors"
	"testing"

	"taskhub/internal/model"
	"taskhub/internal/service"
)

func TestFakeStore_RejectsStaleTag(t *testing.T) {
	doc := model.NewDocument([]string{"Work"}, nil)
	store := NewFakeStore(&doc)
	ctx := context.Background()

	_, tag, err := store.Load(ctx, "tok")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	next, err := store.Save(ctx, "tok", tag, doc)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if next == tag {
		t.Errorf("Save() returned the old tag %q", next)
	}

	_, err = store.Save(ctx, "tok", tag, doc)
	if !errors.Is(err, service.ErrConflict) || !service.IsKind(err, service.SaveFailed) {
		t.Errorf("stale Save() error = %v, want SaveFailed conflict", err)
	}
	if store.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", store.Saves())
	}
}

func TestFakeStore_EmptyUntilFirstSave(t *testing.T) {
	store := NewFakeStore(nil)
	ctx := context.Background()

	_, _, err := store.Load(ctx, "")
	if !errors.Is(err, service.ErrNotFound) || !service.IsKind(err, service.LoadFailed) {
		t.Fatalf("Load() error = %v, want LoadFailed not found", err)
	}
	if _, err := store.Save(ctx, "", "", model.NewDocument(nil, nil)); err != nil {
		t.Fatalf("creating Save() error = %v", err)
	}
	if store.Tag() != "v1" {
		t.Errorf("Tag() = %q, want v1", store.Tag())
	}
}
