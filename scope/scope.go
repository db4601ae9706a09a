package scope

import (
	"context"
	"sync"
	"time"

	"github.com/NetPo4ki/taskrun/task"
)

// Policy controls how a scope reacts to a child task failing.
type Policy int

const (
	// FailFast requests cancellation of all sibling tasks on the first
	// Failed outcome and surfaces that first error from Wait. Errors from
	// siblings unwinding afterwards are discarded, not aggregated.
	// Cancelled outcomes are never treated as failures.
	FailFast Policy = iota

	// Supervisor records the first error but lets siblings keep running.
	Supervisor
)

type Option func(*Options)

type Options struct {
	Label          string
	Dispatcher     task.Dispatcher
	Timeout        time.Duration
	Observer       Observer
	MaxConcurrency int
}

func defaultOptions() Options { return Options{} }

// WithLabel overrides the label inherited by the scope's context and, by
// extension, by every task launched without its own label override.
func WithLabel(label string) Option { return func(o *Options) { o.Label = label } }

// WithDispatcher sets the default dispatcher for tasks launched in the
// scope. Individual launches may still override it.
func WithDispatcher(d task.Dispatcher) Option { return func(o *Options) { o.Dispatcher = d } }

// WithTimeout requests cancellation of the whole scope automatically after
// d elapses. The deadline is a cancellation request, not a hard stop.
func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }

// WithObserver attaches lifecycle hooks to the scope.
func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// WithMaxConcurrency bounds the number of tasks executing concurrently
// within the scope. Tasks beyond the bound wait for a slot; the wait is a
// suspension point.
func WithMaxConcurrency(n int) Option { return func(o *Options) { o.MaxConcurrency = n } }

// Scope owns a set of child tasks. It guarantees that Wait returns only
// after every directly-launched task has reached a terminal state.
type Scope struct {
	ctx      *task.Context
	policy   Policy
	wg       sync.WaitGroup
	mu       sync.Mutex
	firstErr error
	canceled bool

	opts  Options
	obs   Observer
	lim   *limiter
	timer *time.Timer
}

// New creates a scope whose context derives from parent: the label and
// dispatcher are inherited unless overridden, and the scope's signal is a
// child of parent's, so cancelling the parent task cancels every task in
// the scope. A nil parent means a fresh root context.
func New(parent *task.Context, policy Policy, optFns ...Option) *Scope {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newScope(parent, policy, opts)
}

func newScope(parent *task.Context, policy Policy, opts Options) *Scope {
	if parent == nil {
		parent = task.Background()
	}
	ctx := parent.Fork()
	if opts.Label != "" {
		ctx = ctx.WithLabel(opts.Label)
	}
	if opts.Dispatcher != nil {
		ctx = ctx.WithDispatcher(opts.Dispatcher)
	}

	s := &Scope{ctx: ctx, policy: policy, opts: opts, obs: opts.Observer}
	if opts.MaxConcurrency > 0 {
		s.lim = newLimiter(opts.MaxConcurrency)
	}
	if opts.Timeout > 0 {
		s.timer = time.AfterFunc(opts.Timeout, func() {
			s.Cancel(context.DeadlineExceeded)
		})
	}
	if s.obs != nil {
		s.obs.ScopeCreated(ctx.Label())
	}
	return s
}

// Run creates a scope, invokes body with it, and waits for every launched
// task to finish before returning. A non-nil error from body cancels the
// remaining tasks and is surfaced unless an earlier failure already won.
func Run(parent *task.Context, policy Policy, body func(s *Scope) error, optFns ...Option) error {
	s := New(parent, policy, optFns...)
	if body != nil {
		if err := s.exec(body); err != nil {
			s.Cancel(err)
		}
	}
	return s.Wait()
}

// exec runs the scope body with panic capture so a panicking body still
// joins its tasks.
func (s *Scope) exec(body func(s *Scope) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = task.NewPanicError(r)
		}
	}()
	return body(s)
}

// Context returns the scope's context. Tasks launched elsewhere with this
// context as parent are cancelled with the scope but not awaited by it.
func (s *Scope) Context() *task.Context { return s.ctx }

// Launch starts fn as a child task of the scope. The task's context
// inherits the scope's attributes with opts applied; it is scheduled on
// the resolved dispatcher and Launch returns its handle immediately.
// Wait will not return before the task is terminal.
func (s *Scope) Launch(fn task.Func, opts ...task.LaunchOption) *task.Handle {
	s.wg.Add(1)

	var started time.Time
	wrapped := func(tc *task.Context) error {
		if s.lim != nil {
			if err := s.lim.acquire(tc.Std()); err != nil {
				return err
			}
			defer s.lim.release()
		}
		if err := tc.Check(); err != nil {
			return err
		}
		started = time.Now()
		if s.obs != nil {
			s.obs.TaskStarted(tc.Label())
		}
		return fn(tc)
	}

	h := task.Launch(s.ctx, wrapped, opts...)
	h.OnCompletion(func(o task.Outcome) {
		// A task cancelled while still queued never started; it emits
		// neither observer hook so Started/Finished stay paired.
		if s.obs != nil && !started.IsZero() {
			s.obs.TaskFinished(h.Label(), time.Since(started), o)
		}
		if o.Kind == task.KindFailed {
			s.fail(o.Err)
		}
		s.wg.Done()
	})
	return h
}

// LaunchDetached starts fn outside the structured guarantee: the task gets
// a fresh root signal, is not cancelled with the scope, and Wait does not
// wait for it. The label and dispatcher are still inherited. The caller
// owns the returned handle and is responsible for joining it.
func (s *Scope) LaunchDetached(fn task.Func, opts ...task.LaunchOption) *task.Handle {
	return task.Launch(s.ctx.Detach(), fn, opts...)
}

// Cancel requests cooperative cancellation of every task in the scope,
// recording err as the scope result if none is set yet. Idempotent.
func (s *Scope) Cancel(err error) {
	s.mu.Lock()
	wasCanceled := s.canceled
	s.canceled = true
	if s.firstErr == nil && err != nil {
		s.firstErr = err
	}
	cause := s.firstErr
	s.mu.Unlock()

	s.ctx.Signal().Request(cause)
	if !wasCanceled && s.obs != nil {
		s.obs.ScopeCancelled(s.ctx.Label(), cause)
	}
}

// Wait blocks until every directly-launched task is terminal, then returns
// the scope's first recorded error, if any. Cancelled child outcomes do
// not count as errors.
func (s *Scope) Wait() error {
	var start time.Time
	if s.obs != nil {
		start = time.Now()
	}
	s.wg.Wait()
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.obs != nil {
		s.obs.ScopeJoined(s.ctx.Label(), time.Since(start))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}

func (s *Scope) fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.firstErr == nil {
		s.firstErr = err
	}
	shouldCancel := s.policy == FailFast
	cause := s.firstErr
	s.mu.Unlock()
	if shouldCancel {
		s.Cancel(cause)
	}
}

// Child creates a nested scope. Its context derives from this scope's, so
// cancelling the parent cancels the child's tasks; the child inherits the
// parent's options except the timeout, with optFns applied on top.
func (s *Scope) Child(policy Policy, optFns ...Option) *Scope {
	childOpts := s.opts
	childOpts.Timeout = 0
	for _, fn := range optFns {
		fn(&childOpts)
	}
	return newScope(s.ctx, policy, childOpts)
}
