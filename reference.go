package xdeploy

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/douhashi/xdeploy/internal/resourcepath"
	"github.com/rogpeppe/go-internal/txtar"
	"github.com/spf13/afero"
)

// Reference decides how a resource path is turned into a lookup key. It is
// implemented by *Container, which only accepts rooted paths, and by
// InstanceContext, which also resolves relative paths against a location.
type Reference interface {
	container() *Container
	lookupKey(p resourcepath.Path, raw string) (string, error)
}

// Container is a named set of bundled resources, usually an embed.FS.
type Container struct {
	name string
	fsys fs.FS
}

// NewContainer wraps fsys. The name only appears in error messages.
func NewContainer(name string, fsys fs.FS) *Container {
	return &Container{name: name, fsys: fsys}
}

// ContainerFromTxtar builds an in-memory container holding the files of a
// txtar archive. File names follow the same rules as resource paths.
func ContainerFromTxtar(name string, archive *txtar.Archive) (*Container, error) {
	if archive == nil {
		return nil, errors.New("txtar archive is nil")
	}

	mem := afero.NewMemMapFs()
	for _, f := range archive.Files {
		p, err := resourcepath.Parse(f.Name)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", name, err)
		}
		key := p.Key()

		exists, err := afero.Exists(mem, key)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", name, err)
		}
		if exists {
			return nil, fmt.Errorf("archive %s: duplicate file %q", name, key)
		}
		if dir := path.Dir(key); dir != "." {
			if err := mem.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("archive %s: %w", name, err)
			}
		}
		if err := afero.WriteFile(mem, key, f.Data, 0o644); err != nil {
			return nil, fmt.Errorf("archive %s: %w", name, err)
		}
	}

	return NewContainer(name, afero.NewIOFS(mem)), nil
}

// LoadTxtarContainer parses the txtar file at filename into a container named
// after the file.
func LoadTxtarContainer(filename string) (*Container, error) {
	archive, err := txtar.ParseFile(filename)
	if err != nil {
		return nil, &IOError{Op: "read archive", Path: filename, Err: err}
	}
	return ContainerFromTxtar(filepath.Base(filename), archive)
}

// Name returns the container name.
func (c *Container) Name() string {
	return c.name
}

// FS returns the underlying file system.
func (c *Container) FS() fs.FS {
	return c.fsys
}

// Instance returns a reference that resolves relative resource paths under
// location, the way a test resolves files that sit next to it. An empty
// location resolves relative paths at the top of the container.
func (c *Container) Instance(location string) InstanceContext {
	return InstanceContext{c: c, location: location}
}

func (c *Container) container() *Container {
	return c
}

func (c *Container) lookupKey(p resourcepath.Path, raw string) (string, error) {
	if !p.Rooted() {
		return "", invalidPath(raw, `resource path must start with / or \ when resolved against a container`)
	}
	return p.Key(), nil
}

func (c *Container) open(key string) (fs.File, error) {
	f, err := c.fsys.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, &ResourceNotFoundError{Key: key, Container: c.name}
		}
		return nil, &IOError{Op: "open resource", Path: key, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &IOError{Op: "stat resource", Path: key, Err: err}
	}
	if info.IsDir() {
		f.Close()
		return nil, &ResourceNotFoundError{Key: key, Container: c.name}
	}

	return f, nil
}

// InstanceContext resolves relative resource paths against a location
// inside a container. Rooted paths ignore the location.
type InstanceContext struct {
	c        *Container
	location string
}

// Location returns the location relative paths are resolved against.
func (i InstanceContext) Location() string {
	return i.location
}

func (i InstanceContext) container() *Container {
	return i.c
}

func (i InstanceContext) lookupKey(p resourcepath.Path, raw string) (string, error) {
	if p.Rooted() || i.location == "" {
		return p.Key(), nil
	}

	loc, err := resourcepath.Parse(i.location)
	if err != nil {
		return "", err
	}
	return path.Join(loc.Key(), p.Key()), nil
}
