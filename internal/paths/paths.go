// Package paths lays out deployment session directories on a file system.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// PathManager creates, resolves and removes session directories.
type PathManager interface {
	// Root is the directory session directories are created in.
	Root() string
	// NewSessionDir creates a uniquely named directory under Root and
	// returns its absolute path.
	NewSessionDir() (string, error)
	// EnsureSubdir creates sessionDir/segments... and returns its path.
	EnsureSubdir(sessionDir string, segments []string) (string, error)
	// Contains reports whether target lies strictly inside sessionDir.
	Contains(sessionDir, target string) bool
	// RemoveSessionDir deletes the directory tree. A missing directory is
	// not an error.
	RemoveSessionDir(sessionDir string) error
}

type pathManager struct {
	fs     afero.Fs
	root   string
	prefix string
}

// NewPathManager returns a PathManager working on fs. An empty root means
// os.TempDir().
func NewPathManager(fs afero.Fs, root, prefix string) PathManager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if root == "" {
		root = os.TempDir()
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &pathManager{
		fs:     fs,
		root:   root,
		prefix: prefix,
	}
}

func (p *pathManager) Root() string {
	return p.root
}

// NewSessionDir names the directory with a random (crypto/rand) UUID so that
// concurrent processes never pick the same name. Mkdir fails rather than
// reuse an existing directory.
func (p *pathManager) NewSessionDir() (string, error) {
	dir := filepath.Join(p.root, p.prefix+uuid.NewString())
	if err := p.fs.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	return dir, nil
}

func (p *pathManager) EnsureSubdir(sessionDir string, segments []string) (string, error) {
	dir := filepath.Join(append([]string{sessionDir}, segments...)...)
	if !p.Contains(sessionDir, dir) {
		return "", fmt.Errorf("subdirectory %q escapes %s", filepath.Join(segments...), sessionDir)
	}
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}
	return dir, nil
}

func (p *pathManager) Contains(sessionDir, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(sessionDir), filepath.Clean(target))
	if err != nil {
		return false
	}
	if rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (p *pathManager) RemoveSessionDir(sessionDir string) error {
	if sessionDir == "" {
		return errors.New("session directory is empty")
	}
	if err := p.fs.RemoveAll(sessionDir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
