package allfiles

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies filesystem failures surfaced by a walk.
type ErrorKind int

const (
	KindOtherIO          ErrorKind = iota // Any other OS failure
	KindNotFound                          // Root or a discovered path vanished
	KindPermissionDenied                  // Listing or stat was refused
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	default:
		return "io error"
	}
}

// PathError records a failed filesystem operation and the path it failed on.
type PathError struct {
	Op   string // "lstat" or "readdir"
	Path string
	Kind ErrorKind
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("allfiles: %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// newPathError wraps a collaborator error. It never retries or interprets the
// error beyond classifying it.
func newPathError(op, path string, err error) *PathError {
	kind := KindOtherIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	}
	return &PathError{Op: op, Path: path, Kind: kind, Err: err}
}

// KindOf returns the kind of the first *PathError in err's chain, or
// KindOtherIO when there is none.
func KindOf(err error) ErrorKind {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindOtherIO
}
