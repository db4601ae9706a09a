package task

import (
	"context"
	"time"
)

// Func is the signature of a task body. It receives the task's context and
// returns nil on success, a *CancelledError (usually from a suspension
// point) on cooperative abort, or any other error on failure.
type Func func(tc *Context) error

type launchConfig struct {
	label    string
	labelSet bool
	disp     Dispatcher
	dispSet  bool
	timeout  time.Duration
}

// LaunchOption overrides one inherited context attribute for a single
// launch. Attributes not overridden are identical to the parent's.
type LaunchOption func(*launchConfig)

// WithLabel overrides the label of the launched task's context.
func WithLabel(label string) LaunchOption {
	return func(c *launchConfig) {
		c.label = label
		c.labelSet = true
	}
}

// WithDispatcher overrides the dispatcher of the launched task's context.
// All other inherited attributes are unaffected.
func WithDispatcher(d Dispatcher) LaunchOption {
	return func(c *launchConfig) {
		c.disp = d
		c.dispSet = true
	}
}

// WithTimeout requests cancellation of the launched task automatically
// after d elapses, unless it reaches a terminal state first.
func WithTimeout(d time.Duration) LaunchOption {
	return func(c *launchConfig) {
		c.timeout = d
	}
}

// Launch starts fn as a task under parent, deriving a child context with
// the given overrides, and schedules it on the resolved dispatcher. It
// returns immediately with the task's handle; with an inline dispatcher
// the task has already finished by then.
//
// Launch alone is unstructured: nothing waits for the task. Use a scope
// for the structured guarantee.
func Launch(parent *Context, fn Func, opts ...LaunchOption) *Handle {
	if parent == nil {
		parent = Background()
	}
	var cfg launchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tc := parent.Fork()
	if cfg.labelSet {
		tc.label = cfg.label
	}
	if cfg.dispSet {
		tc.disp = cfg.disp
	}

	h := newHandle(tc)

	if cfg.timeout > 0 {
		timer := time.AfterFunc(cfg.timeout, func() {
			h.Cancel(context.DeadlineExceeded)
		})
		h.OnCompletion(func(Outcome) { timer.Stop() })
	}

	run := func() { h.run(fn) }
	if tc.disp != nil {
		tc.disp.Dispatch(run)
	} else {
		go run()
	}
	return h
}
