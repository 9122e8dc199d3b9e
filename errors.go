package xdeploy

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/douhashi/xdeploy/internal/resourcepath"
)

// ErrInvalidPath is matched by errors for malformed or unsafe resource and
// subdirectory paths.
var ErrInvalidPath = resourcepath.ErrInvalidPath

// InvalidPathError describes a rejected path.
type InvalidPathError = resourcepath.InvalidPathError

// ErrResourceNotFound is matched when no bundled resource exists for a key.
var ErrResourceNotFound = errors.New("resource not found")

// ErrFileExists is matched when a deployment would overwrite a file.
var ErrFileExists = errors.New("file already exists")

// ResourceNotFoundError names the key that was looked up and the container
// that was searched.
type ResourceNotFoundError struct {
	Key       string
	Container string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %q was not found in %s", e.Key, e.Container)
}

// Is reports whether target is ErrResourceNotFound.
func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// FileExistsError is returned instead of overwriting an existing file.
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("file %s already exists", e.Path)
}

// Is reports whether target is ErrFileExists or fs.ErrExist.
func (e *FileExistsError) Is(target error) bool {
	return target == ErrFileExists || target == fs.ErrExist
}

// IOError wraps a host file system failure.
type IOError struct {
	Op   string // Operation that failed, e.g. "create directory"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func invalidPath(path, reason string) error {
	return &InvalidPathError{Path: path, Reason: reason}
}
