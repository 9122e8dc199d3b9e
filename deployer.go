package xdeploy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/douhashi/xdeploy/internal/cleanup"
	"github.com/douhashi/xdeploy/internal/config"
	"github.com/douhashi/xdeploy/internal/logger"
	"github.com/douhashi/xdeploy/internal/paths"
	"github.com/douhashi/xdeploy/internal/resourcepath"
	"github.com/spf13/afero"
)

// ErrClosed is returned by operations that need the deployment directory
// after Close.
var ErrClosed = errors.New("deployer is closed")

// Deployer copies bundled resources into a private temporary directory and
// removes that directory on Close.
//
// A Deployer is meant to be used by a single test and is not safe for
// concurrent use.
type Deployer struct {
	ref     Reference
	fs      afero.Fs
	log     logger.Logger
	sess    *session
	cleanup runtime.Cleanup
}

// session holds the state the finalizer needs. It must not point back to the
// Deployer, otherwise the Deployer would never become unreachable.
type session struct {
	paths    paths.PathManager
	log      logger.Logger
	keep     bool
	dir      string
	created  bool
	teardown *cleanup.Handler
}

// New creates a Deployer resolving resources through ref. No directory is
// created until the first deployment or CreateDeploymentDirectory.
func New(ref Reference, opts ...Option) (*Deployer, error) {
	if ref == nil || ref.container() == nil || ref.container().fsys == nil {
		return nil, errors.New("xdeploy: reference has no container")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := config.FromEnv(o.overrides...)
	if err != nil {
		return nil, fmt.Errorf("xdeploy: %w", err)
	}

	log := o.log
	if log == nil {
		log, err = logger.New(
			logger.WithLevel(cfg.Log.Level),
			logger.WithFormat(cfg.Log.Format),
		)
		if err != nil {
			return nil, fmt.Errorf("xdeploy: %w", err)
		}
	}
	log = log.WithFields("container", ref.container().Name())

	fsys := o.fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	d := &Deployer{
		ref: ref,
		fs:  fsys,
		log: log,
		sess: &session{
			paths:    paths.NewPathManager(fsys, cfg.TempRoot, cfg.DirPrefix),
			log:      log,
			keep:     cfg.Keep,
			teardown: cleanup.NewHandler(),
		},
	}

	// Safety net for callers that never Close. Timing is up to the runtime.
	d.cleanup = runtime.AddCleanup(d, func(s *session) {
		_ = s.dispose()
	}, d.sess)

	return d, nil
}

// DeploymentDirectory returns the session directory and true once it has
// been created, or "" and false before that.
func (d *Deployer) DeploymentDirectory() (string, bool) {
	return d.sess.dir, d.sess.created
}

// CreateDeploymentDirectory creates the session directory if needed and
// returns its absolute path.
func (d *Deployer) CreateDeploymentDirectory() (string, error) {
	s := d.sess
	if s.teardown.Executed() {
		return "", ErrClosed
	}
	if s.created {
		return s.dir, nil
	}

	dir, err := s.paths.NewSessionDir()
	if err != nil {
		return "", &IOError{Op: "create deployment directory", Path: s.paths.Root(), Err: err}
	}
	s.dir, s.created = dir, true

	s.teardown.RegisterFunc("remove deployment directory", func() error {
		if s.keep {
			s.log.Info("Keeping deployment directory", "dir", dir)
			return nil
		}
		return s.paths.RemoveSessionDir(dir)
	})

	d.log.Debug("Created deployment directory", "dir", dir)
	return dir, nil
}

// Deploy copies the resource at resourcePath into the session directory and
// returns the path of the new file. Only the last path segment is kept as
// the file name.
func (d *Deployer) Deploy(resourcePath string) (string, error) {
	return d.deploy(resourcePath, nil)
}

// DeployTo is like Deploy but places the file under outputSubdirectory,
// which must be relative and is created as needed.
func (d *Deployer) DeployTo(resourcePath, outputSubdirectory string) (string, error) {
	return d.deploy(resourcePath, &outputSubdirectory)
}

func (d *Deployer) deploy(resourcePath string, outputSubdirectory *string) (string, error) {
	res, err := resourcepath.Parse(resourcePath)
	if err != nil {
		return "", err
	}

	var subdir []string
	if outputSubdirectory != nil {
		sub, err := resourcepath.Parse(*outputSubdirectory)
		if err != nil {
			return "", err
		}
		if sub.Rooted() {
			return "", invalidPath(*outputSubdirectory, "output subdirectory must be relative")
		}
		subdir = sub.Segments()
	}

	if d.sess.teardown.Executed() {
		return "", ErrClosed
	}

	src, key, err := d.openResource(res, resourcePath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	sessionDir, err := d.CreateDeploymentDirectory()
	if err != nil {
		return "", err
	}

	dir := sessionDir
	if len(subdir) > 0 {
		dir, err = d.sess.paths.EnsureSubdir(sessionDir, subdir)
		if err != nil {
			return "", &IOError{Op: "create directory", Path: filepath.Join(subdir...), Err: err}
		}
	}

	target := filepath.Join(dir, res.Leaf())
	if !d.sess.paths.Contains(sessionDir, target) {
		return "", invalidPath(resourcePath, "target escapes the deployment directory")
	}

	if err := d.copyTo(target, src); err != nil {
		return "", err
	}

	d.log.Debug("Deployed resource", "key", key, "path", target)
	return target, nil
}

// copyTo writes src into a new file. Existing files are never overwritten.
func (d *Deployer) copyTo(target string, src io.Reader) error {
	f, err := d.fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &FileExistsError{Path: target}
		}
		return &IOError{Op: "create file", Path: target, Err: err}
	}

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		d.removePartial(target)
		return &IOError{Op: "write file", Path: target, Err: err}
	}
	if err := f.Close(); err != nil {
		d.removePartial(target)
		return &IOError{Op: "close file", Path: target, Err: err}
	}

	return nil
}

func (d *Deployer) removePartial(target string) {
	if err := d.fs.Remove(target); err != nil && !os.IsNotExist(err) {
		d.log.Warn("Failed to remove partially written file", "path", target, "error", err)
	}
}

// Open returns the raw bytes of a bundled resource. The caller must close
// the returned reader.
func (d *Deployer) Open(resourcePath string) (io.ReadCloser, error) {
	p, err := resourcepath.Parse(resourcePath)
	if err != nil {
		return nil, err
	}
	f, _, err := d.openResource(p, resourcePath)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (d *Deployer) openResource(p resourcepath.Path, raw string) (fs.File, string, error) {
	key, err := d.ref.lookupKey(p, raw)
	if err != nil {
		return nil, "", err
	}
	f, err := d.ref.container().open(key)
	if err != nil {
		return nil, key, err
	}
	return f, key, nil
}

// Close removes the session directory. It is safe to call more than once;
// only the first call does any work. A directory that is already gone is
// not an error. A removal failure is logged and returned once.
func (d *Deployer) Close() error {
	err := d.sess.dispose()
	d.cleanup.Stop()
	if err != nil {
		return &IOError{Op: "close", Path: d.sess.dir, Err: err}
	}
	return nil
}

func (s *session) dispose() error {
	err := s.teardown.Execute()
	if err != nil {
		s.log.Warn("Failed to remove deployment directory", "dir", s.dir, "error", err)
	}
	return err
}
