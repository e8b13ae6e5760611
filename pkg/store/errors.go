package store

import (
	"errors"
	"fmt"

	"github.com/suryansh924/NotesApp-AI/pkg/models"
)

// The hosted backends report failures in whatever shape their transport
// produces. Every implementation of [Store] translates those shapes into the
// two kinds below before an error crosses into application logic, so callers
// only ever branch with errors.As against a closed set.

// NotFoundError reports that a referenced note does not exist in the store.
type NotFoundError struct {
	ID models.NoteID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("note %s not found", e.ID)
}

// RemoteError reports a transport or server failure from the backing store.
// Op names the store operation that failed; Err is the underlying cause.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a missing-note failure.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
