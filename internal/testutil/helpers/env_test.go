package helpers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvGuard(t *testing.T) {
	const testKey = "XDEPLOY_HELPERS_GUARD_VAR"

	t.Run("restores an existing value", func(t *testing.T) {
		t.Setenv(testKey, "original")

		t.Run("inner", func(t *testing.T) {
			guard := NewEnvGuard(t)
			guard.Set(testKey, "changed")
			guard.Set(testKey, "changed twice")
			assert.Equal(t, "changed twice", os.Getenv(testKey))
		})

		assert.Equal(t, "original", os.Getenv(testKey))
	})

	t.Run("removes a variable that did not exist", func(t *testing.T) {
		t.Run("inner", func(t *testing.T) {
			guard := NewEnvGuard(t)
			guard.Set(testKey, "temporary")
		})

		_, ok := os.LookupEnv(testKey)
		assert.False(t, ok)
	})

	t.Run("unset", func(t *testing.T) {
		t.Setenv(testKey, "original")

		guard := NewEnvGuard(t)
		guard.Unset(testKey)
		_, ok := os.LookupEnv(testKey)
		require.False(t, ok)

		guard.Restore()
		assert.Equal(t, "original", os.Getenv(testKey))
	})
}

func TestIsolateEnv(t *testing.T) {
	t.Setenv("XDEPLOY_HELPERS_A", "a")
	t.Setenv("XDEPLOY_HELPERS_B", "b")
	t.Setenv("OTHER_HELPERS_C", "c")

	t.Run("inner", func(t *testing.T) {
		IsolateEnv(t, "XDEPLOY_HELPERS_")

		_, ok := os.LookupEnv("XDEPLOY_HELPERS_A")
		assert.False(t, ok)
		_, ok = os.LookupEnv("XDEPLOY_HELPERS_B")
		assert.False(t, ok)
		assert.Equal(t, "c", os.Getenv("OTHER_HELPERS_C"))
	})

	assert.Equal(t, "a", os.Getenv("XDEPLOY_HELPERS_A"))
	assert.Equal(t, "b", os.Getenv("XDEPLOY_HELPERS_B"))
}
