package xdeploy

import (
	"fmt"
	"os"
	"testing"

	"github.com/douhashi/xdeploy/internal/config"
	"github.com/douhashi/xdeploy/internal/testutil/helpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTB captures what ForTest does with its TB.
type recordingTB struct {
	cleanups []func()
	logs     []string
	fatals   []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Cleanup(fn func()) {
	r.cleanups = append(r.cleanups, fn)
}

func (r *recordingTB) Logf(format string, args ...any) {
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

func (r *recordingTB) runCleanups() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
}

func TestForTest_RemovesDirectoryWhenTestEnds(t *testing.T) {
	helpers.IsolateEnv(t, config.EnvPrefix+"_")
	root := t.TempDir()
	var dir string

	t.Run("inner", func(t *testing.T) {
		d := ForTest(t, bundle.Instance("testdata"), WithTempRoot(root), WithKeep(false))
		path, err := d.Deploy("1-line.txt")
		require.NoError(t, err)
		dir, _ = d.DeploymentDirectory()

		_, err = os.Stat(path)
		require.NoError(t, err)
	})

	require.NotEmpty(t, dir)
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestForTest_LogsTeardownFailure(t *testing.T) {
	tb := &recordingTB{}
	d := ForTest(tb, bundle.Instance("testdata"),
		WithTempRoot(t.TempDir()),
		WithKeep(false),
		WithFs(failingRemoveFs{Fs: afero.NewOsFs()}),
	)
	require.NotNil(t, d)
	require.Len(t, tb.cleanups, 1)

	_, err := d.CreateDeploymentDirectory()
	require.NoError(t, err)

	tb.runCleanups()
	require.Len(t, tb.logs, 1)
	assert.Contains(t, tb.logs[0], "device busy")
	assert.Empty(t, tb.fatals)
}

func TestForTest_InvalidConfiguration(t *testing.T) {
	tb := &recordingTB{}
	d := ForTest(tb, bundle, WithDirPrefix(".."))

	assert.Nil(t, d)
	require.Len(t, tb.fatals, 1)
	assert.Empty(t, tb.cleanups)
}
