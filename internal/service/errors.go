package service

import (
	"errors"
	"fmt"
)

// SyncKind says which side of a sync failed.
type SyncKind int

const (
	LoadFailed SyncKind = iota + 1
	SaveFailed
)

func (k SyncKind) String() string {
	switch k {
	case LoadFailed:
		return "load failed"
	case SaveFailed:
		return "save failed"
	}
	return fmt.Sprintf("SyncKind(%d)", int(k))
}

// SyncError reports a failed Load or Save. Local state stays authoritative:
// the caller may reload or retry later.
type SyncError struct {
	Kind  SyncKind
	Cause error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *SyncError) Unwrap() error { return e.Cause }

var (
	// ErrNotFound means the remote document does not exist yet.
	ErrNotFound = errors.New("document not found")

	// ErrConflict means the remote revision no longer matches the version tag.
	ErrConflict = errors.New("remote document changed since it was loaded")

	// ErrUnauthorized means the remote rejected the credential.
	ErrUnauthorized = errors.New("credential rejected")
)

// LoadError wraps cause as a LoadFailed SyncError.
func LoadError(cause error) error {
	return &SyncError{Kind: LoadFailed, Cause: cause}
}

// SaveError wraps cause as a SaveFailed SyncError.
func SaveError(cause error) error {
	return &SyncError{Kind: SaveFailed, Cause: cause}
}

// IsKind reports whether err is a SyncError of the given kind.
func IsKind(err error, kind SyncKind) bool {
	var se *SyncError
	return errors.As(err, &se) && se.Kind == kind
}
