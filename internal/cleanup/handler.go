// Package cleanup runs registered teardown steps exactly once.
package cleanup

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// Handler collects teardown steps and executes them in reverse registration
// order. Execute runs at most once; later calls are no-ops.
type Handler struct {
	mu       sync.Mutex
	steps    []Step
	executed bool
}

// Step is a named teardown operation.
type Step struct {
	Name        string
	Fn          func() error
	Critical    bool // If true, failure stops the remaining steps
	IgnoreError bool // If true, the failure is not returned
}

// NewHandler creates an empty Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Register adds a step. Steps registered after Execute are never run.
func (h *Handler) Register(step Step) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.steps = append(h.steps, step)
}

// RegisterFunc is a convenience wrapper around Register.
func (h *Handler) RegisterFunc(name string, fn func() error) {
	h.Register(Step{
		Name: name,
		Fn:   fn,
	})
}

// Executed reports whether Execute has been called.
func (h *Handler) Executed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.executed
}

// Execute runs every step, last registered first. All failures are
// combined; use multierr.Errors to inspect them individually.
func (h *Handler) Execute() error {
	h.mu.Lock()
	if h.executed {
		h.mu.Unlock()
		return nil
	}
	h.executed = true
	steps := make([]Step, len(h.steps))
	copy(steps, h.steps)
	h.steps = nil
	h.mu.Unlock()

	var errs error
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]

		err := step.Fn()
		if err == nil {
			continue
		}
		if !step.IgnoreError {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", step.Name, err))
		}
		if step.Critical {
			break
		}
	}

	return errs
}
