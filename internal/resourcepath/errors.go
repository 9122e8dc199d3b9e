package resourcepath

import (
	"errors"
	"fmt"
)

// ErrInvalidPath is matched by every error returned from Parse.
var ErrInvalidPath = errors.New("invalid resource path")

// InvalidPathError describes why a path was rejected.
type InvalidPathError struct {
	Path   string // Input as given by the caller
	Reason string // Human-readable reason
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// Is reports whether target is ErrInvalidPath.
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

func invalid(path, format string, args ...any) error {
	return &InvalidPathError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
