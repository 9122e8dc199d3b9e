package xdeploy

import (
	"github.com/douhashi/xdeploy/internal/config"
	"github.com/douhashi/xdeploy/internal/logger"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Option customizes a Deployer. Options take precedence over XDEPLOY_*
// environment settings.
type Option func(*options)

type options struct {
	fs        afero.Fs
	log       logger.Logger
	overrides []func(*config.Config)
}

// WithLogger routes deployer logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = logger.FromZap(l)
	}
}

// WithFs sets the file system session directories are written to. The
// default is the host file system.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithTempRoot sets the directory session directories are created in.
func WithTempRoot(dir string) Option {
	return withConfig(func(c *config.Config) {
		c.TempRoot = dir
	})
}

// WithDirPrefix sets the prefix of session directory names.
func WithDirPrefix(prefix string) Option {
	return withConfig(func(c *config.Config) {
		c.DirPrefix = prefix
	})
}

// WithKeep leaves the session directory on disk after Close. Useful when
// chasing a failure that only happens on a build machine.
func WithKeep(keep bool) Option {
	return withConfig(func(c *config.Config) {
		c.Keep = keep
	})
}

func withConfig(fn func(*config.Config)) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, fn)
	}
}
