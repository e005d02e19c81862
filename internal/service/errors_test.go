package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestSyncError_Unwrap(t *testing.T) {
	err := fmt.Errorf("saving: %w", SaveError(fmt.Errorf("%w: sha mismatch", ErrConflict)))

	if !errors.Is(err, ErrConflict) {
		t.Errorf("errors.Is(err, ErrConflict) = false, want true")
	}
	if !IsKind(err, SaveFailed) {
		t.Errorf("IsKind(err, SaveFailed) = false, want true")
	}
	if IsKind(err, LoadFailed) {
		t.Errorf("IsKind(err, LoadFailed) = true, want false")
	}
	want := "saving: save failed: remote document changed since it was loaded: sha mismatch"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSyncKind_String(t *testing.T) {
	if got := SyncKind(9).String(); got != "SyncKind(9)" {
		t.Errorf("String() = %q", got)
	}
}
