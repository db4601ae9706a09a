package task

import (
	"sync"
	"sync/atomic"
)

var nextTaskID atomic.Uint64

// Handle identifies a launched task and exposes its lifecycle: state,
// cancellation, joining, and completion listeners.
type Handle struct {
	id    uint64
	ctx   *Context
	state atomic.Int32
	done  chan struct{}

	mu        sync.Mutex
	completed bool
	outcome   Outcome
	listeners []func(Outcome)
}

func newHandle(ctx *Context) *Handle {
	return &Handle{
		id:   nextTaskID.Add(1),
		ctx:  ctx,
		done: make(chan struct{}),
	}
}

// ID returns the task's unique identifier.
func (h *Handle) ID() uint64 { return h.id }

// Label returns the label of the task's context.
func (h *Handle) Label() string { return h.ctx.Label() }

// Context returns the task's launch context.
func (h *Handle) Context() *Context { return h.ctx }

// State returns the task's current lifecycle state.
func (h *Handle) State() State { return State(h.state.Load()) }

// Done returns a channel closed when the task reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Join blocks until the task is terminal and returns its outcome. Join
// never propagates the task's error; inspect the outcome or use a typed
// promise for that.
//
// Join on a task that never reaches a suspension point blocks until the
// task function returns on its own, even after Cancel.
func (h *Handle) Join() Outcome {
	<-h.done
	return h.outcome
}

// Cancel requests cooperative cancellation of the task and, through signal
// derivation, of every descendant launched under it. It is idempotent and
// never forces termination: the task keeps running until its next
// suspension point.
func (h *Handle) Cancel(cause error) {
	h.ctx.signal.Request(cause)
	for {
		cur := State(h.state.Load())
		if cur.Terminal() || cur == StateCancelling {
			return
		}
		if h.state.CompareAndSwap(int32(cur), int32(StateCancelling)) {
			return
		}
	}
}

// OnCompletion registers fn to run exactly once when the task reaches a
// terminal state, receiving the outcome. If the task is already terminal,
// fn runs synchronously before OnCompletion returns.
func (h *Handle) OnCompletion(fn func(Outcome)) {
	h.mu.Lock()
	if h.completed {
		o := h.outcome
		h.mu.Unlock()
		fn(o)
		return
	}
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// complete moves the task to its terminal state. Exactly one call wins;
// the rest are no-ops.
func (h *Handle) complete(o Outcome) {
	var to State
	switch o.Kind {
	case KindCompleted:
		to = StateCompleted
	case KindFailed:
		to = StateFailed
	default:
		to = StateCancelled
	}

	for {
		cur := State(h.state.Load())
		if cur.Terminal() {
			return
		}
		if h.state.CompareAndSwap(int32(cur), int32(to)) {
			break
		}
	}

	h.mu.Lock()
	h.outcome = o
	h.completed = true
	listeners := h.listeners
	h.listeners = nil
	h.mu.Unlock()

	if to == StateCancelled {
		h.ctx.signal.finalize()
	}
	close(h.done)

	for _, fn := range listeners {
		fn(o)
	}
}

// run executes the task function on the dispatcher mapped execution point,
// classifying its return into a terminal outcome.
func (h *Handle) run(fn Func) {
	// Cancelled while still queued: abort without running.
	if h.ctx.Cancelled() {
		h.complete(Outcome{Kind: KindCancelled, Err: &CancelledError{Cause: h.ctx.signal.Cause()}})
		return
	}
	h.state.CompareAndSwap(int32(StateCreated), int32(StateRunning))

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = newPanicError(r)
			}
		}()
		return fn(h.ctx)
	}()

	h.complete(classify(h.ctx, err))
}

// classify maps the task function's return to a terminal outcome. With a
// pending cancellation request, a nil or cancellation-flavored return ends
// Cancelled: there is no Cancelling -> Completed transition. A distinct
// failure error stays Failed even while unwinding.
func classify(ctx *Context, err error) Outcome {
	if ctx.Cancelled() && (err == nil || IsCancelled(err)) {
		if err == nil {
			err = &CancelledError{Cause: ctx.signal.Cause()}
		}
		return Outcome{Kind: KindCancelled, Err: err}
	}
	if err == nil {
		return Outcome{Kind: KindCompleted}
	}
	// Cancellation-shaped errors without a request on this task's signal
	// count as ordinary failures.
	return Outcome{Kind: KindFailed, Err: err}
}
