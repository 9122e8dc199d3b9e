package paths

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathManager(t *testing.T) {
	tests := []struct {
		name     string
		root     string
		expected string
	}{
		{
			name:     "default root",
			root:     "",
			expected: os.TempDir(),
		},
		{
			name:     "custom root",
			root:     "/custom/path",
			expected: "/custom/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPathManager(afero.NewMemMapFs(), tt.root, "x-")
			want, err := filepath.Abs(tt.expected)
			require.NoError(t, err)
			if pm.Root() != want {
				t.Errorf("Root() = %v, want %v", pm.Root(), want)
			}
		})
	}
}

func TestPathManager_NewSessionDir(t *testing.T) {
	root := t.TempDir()
	pm := NewPathManager(nil, root, "xdeploy-test-")

	dir, err := pm.NewSessionDir()
	require.NoError(t, err)

	assert.Equal(t, root, filepath.Dir(dir))
	assert.True(t, strings.HasPrefix(filepath.Base(dir), "xdeploy-test-"))
	assert.True(t, filepath.IsAbs(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPathManager_NewSessionDir_Unique(t *testing.T) {
	root := t.TempDir()
	pm := NewPathManager(nil, root, "")

	const n = 32
	dirs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir, err := pm.NewSessionDir()
			assert.NoError(t, err)
			dirs[i] = dir
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, dir := range dirs {
		assert.False(t, seen[dir], "duplicate session dir %s", dir)
		seen[dir] = true
	}
}

func TestPathManager_NewSessionDir_MissingRoot(t *testing.T) {
	pm := NewPathManager(nil, filepath.Join(t.TempDir(), "missing"), "x-")
	_, err := pm.NewSessionDir()
	assert.Error(t, err)
}

func TestPathManager_EnsureSubdir(t *testing.T) {
	fs := afero.NewMemMapFs()
	pm := NewPathManager(fs, "/tmp", "x-")
	session, err := pm.NewSessionDir()
	require.NoError(t, err)

	dir, err := pm.EnsureSubdir(session, []string{"thedirectory", "nesteddirectory"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(session, "thedirectory", "nesteddirectory"), dir)

	exists, err := afero.DirExists(fs, dir)
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("idempotent", func(t *testing.T) {
		again, err := pm.EnsureSubdir(session, []string{"thedirectory", "nesteddirectory"})
		require.NoError(t, err)
		assert.Equal(t, dir, again)
	})

	t.Run("escaping segments are refused", func(t *testing.T) {
		_, err := pm.EnsureSubdir(session, []string{"a", "..", ".."})
		assert.Error(t, err)
	})
}

func TestPathManager_Contains(t *testing.T) {
	pm := NewPathManager(afero.NewMemMapFs(), "/tmp", "x-")
	session := filepath.Join("/tmp", "x-session")

	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{name: "direct child", target: filepath.Join(session, "1-line.txt"), want: true},
		{name: "nested child", target: filepath.Join(session, "a", "b", "1-line.txt"), want: true},
		{name: "dot-dot prefixed name", target: filepath.Join(session, "..hidden"), want: true},
		{name: "session itself", target: session, want: false},
		{name: "parent", target: "/tmp", want: false},
		{name: "sibling", target: filepath.Join("/tmp", "x-other", "f"), want: false},
		{name: "climbing back out", target: session + string(filepath.Separator) + filepath.Join("a", "..", "..", "f"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pm.Contains(session, tt.target))
		})
	}
}

func TestPathManager_RemoveSessionDir(t *testing.T) {
	root := t.TempDir()
	pm := NewPathManager(nil, root, "x-")

	session, err := pm.NewSessionDir()
	require.NoError(t, err)
	_, err = pm.EnsureSubdir(session, []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(session, "a", "b", "f.txt"), []byte("x"), 0o644))

	require.NoError(t, pm.RemoveSessionDir(session))
	_, err = os.Stat(session)
	assert.True(t, os.IsNotExist(err))

	t.Run("already removed", func(t *testing.T) {
		assert.NoError(t, pm.RemoveSessionDir(session))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.Error(t, pm.RemoveSessionDir(""))
	})
}
