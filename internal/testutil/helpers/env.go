package helpers

import (
	"os"
	"strings"
	"testing"
)

// EnvGuard manages environment variables during tests.
// It saves the original values and restores them after the test.
type EnvGuard struct {
	t        testing.TB
	original map[string]*string
}

// NewEnvGuard creates an EnvGuard that restores every variable it touched
// when t finishes.
func NewEnvGuard(t testing.TB) *EnvGuard {
	t.Helper()
	g := &EnvGuard{
		t:        t,
		original: make(map[string]*string),
	}
	t.Cleanup(g.Restore)
	return g
}

func (g *EnvGuard) save(key string) {
	if _, saved := g.original[key]; saved {
		return
	}
	if value, ok := os.LookupEnv(key); ok {
		g.original[key] = &value
	} else {
		g.original[key] = nil
	}
}

// Set sets an environment variable and saves its original value.
func (g *EnvGuard) Set(key, value string) {
	g.t.Helper()
	g.save(key)
	if err := os.Setenv(key, value); err != nil {
		g.t.Fatalf("failed to set env var %s: %v", key, err)
	}
}

// Unset removes an environment variable and saves its original value.
func (g *EnvGuard) Unset(key string) {
	g.t.Helper()
	g.save(key)
	if err := os.Unsetenv(key); err != nil {
		g.t.Fatalf("failed to unset env var %s: %v", key, err)
	}
}

// Restore puts back the values seen before the first Set or Unset. A
// variable that did not exist is removed again.
func (g *EnvGuard) Restore() {
	for key, value := range g.original {
		if value == nil {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, *value)
		}
	}
	g.original = make(map[string]*string)
}

// IsolateEnv unsets every variable starting with prefix for the rest of the
// test.
func IsolateEnv(t testing.TB, prefix string) *EnvGuard {
	t.Helper()
	g := NewEnvGuard(t)
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, prefix) {
			g.Unset(key)
		}
	}
	return g
}
