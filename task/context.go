package task

import (
	"context"
	"runtime"
	"time"
)

// Dispatcher maps a task to a point of execution. Implementations decide
// where and when run is invoked: a worker pool, a serialized worker, or
// the launching goroutine itself. See the dispatch package for the
// built-in policies.
type Dispatcher interface {
	Dispatch(run func())
}

// Context is the immutable attribute bag attached to a task: a label, a
// dispatcher reference, and a cancellation signal. Child contexts are
// derived at launch by copying the parent's attributes and overriding only
// those explicitly supplied; inheritance is established at launch time and
// never changes afterwards.
type Context struct {
	label  string
	disp   Dispatcher
	signal *Signal
}

// Background returns a root context with a fresh signal, no label, and no
// dispatcher (tasks launched under it run on their own goroutines unless a
// dispatcher is set at launch).
func Background() *Context {
	return &Context{signal: NewSignal()}
}

// Label returns the context's label, or the empty string if none was set
// anywhere up the launch chain.
func (c *Context) Label() string { return c.label }

// Dispatcher returns the context's dispatcher, possibly nil.
func (c *Context) Dispatcher() Dispatcher { return c.disp }

// Signal returns the context's cancellation signal.
func (c *Context) Signal() *Signal { return c.signal }

// Std returns a context.Context cancelled when the task's signal is
// requested. Blocking on it is a suspension point.
func (c *Context) Std() context.Context { return c.signal.Context() }

// Done returns a channel closed when cancellation is requested.
func (c *Context) Done() <-chan struct{} { return c.signal.Done() }

// Cancelled reports whether cancellation has been requested.
func (c *Context) Cancelled() bool { return c.signal.Requested() }

// WithLabel returns a copy of c with the label replaced. The signal and
// dispatcher are shared with c.
func (c *Context) WithLabel(label string) *Context {
	cc := *c
	cc.label = label
	return &cc
}

// WithDispatcher returns a copy of c with the dispatcher replaced.
func (c *Context) WithDispatcher(d Dispatcher) *Context {
	cc := *c
	cc.disp = d
	return &cc
}

// Fork returns a copy of c with a child signal. Requests on c's signal
// propagate to the fork; requests on the fork stay within its subtree.
func (c *Context) Fork() *Context {
	cc := *c
	cc.signal = c.signal.Child()
	return &cc
}

// Detach returns a copy of c with a fresh root signal. Cancellation of c
// no longer reaches the copy; label and dispatcher are kept. This is the
// explicit opt-out of the structured cancellation tree.
func (c *Context) Detach() *Context {
	cc := *c
	cc.signal = NewSignal()
	return &cc
}

// Check is the explicit suspension point. It returns a *CancelledError if
// cancellation has been requested, nil otherwise.
func (c *Context) Check() error {
	if c.signal.Requested() {
		return &CancelledError{Cause: c.signal.Cause()}
	}
	return nil
}

// Sleep is a timed-wait suspension point. It returns nil after d elapses,
// or a *CancelledError as soon as cancellation is requested.
func (c *Context) Sleep(d time.Duration) error {
	if err := c.Check(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-c.signal.Done():
		return &CancelledError{Cause: c.signal.Cause()}
	}
}

// Yield relinquishes the processor and checks for cancellation. Insert it
// into compute loops that must stay cancellable.
func (c *Context) Yield() error {
	runtime.Gosched()
	return c.Check()
}
