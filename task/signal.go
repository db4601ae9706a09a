package task

import (
	"context"
	"sync/atomic"
)

// SignalState is the tri-state of a cancellation signal. Transitions are
// monotonic: Active -> Requested -> Cancelled, never back.
type SignalState int32

const (
	// SignalActive means no cancellation has been requested.
	SignalActive SignalState = iota

	// SignalRequested means cancellation was requested and tasks observing
	// the signal are unwinding.
	SignalRequested

	// SignalCancelled means the task owning the signal reached its
	// Cancelled terminal state.
	SignalCancelled
)

func (s SignalState) String() string {
	switch s {
	case SignalActive:
		return "Active"
	case SignalRequested:
		return "CancellationRequested"
	case SignalCancelled:
		return "Cancelled"
	default:
		return "invalid"
	}
}

// Signal is a cooperative cancellation token shared by a task and observed
// by every signal derived from it. Requesting cancellation on a signal
// propagates to all derived descendants; the reverse direction does not
// propagate.
//
// Signals are built on context cancellation chains, so any context-aware
// API can participate via [Signal.Context].
type Signal struct {
	ctx       context.Context
	cancel    context.CancelCauseFunc
	finalized atomic.Bool
}

// NewSignal returns a root signal with no parent.
func NewSignal() *Signal {
	return deriveSignal(context.Background())
}

func deriveSignal(parent context.Context) *Signal {
	ctx, cancel := context.WithCancelCause(parent)
	return &Signal{ctx: ctx, cancel: cancel}
}

// Child derives a signal that observes cancellation of s in addition to
// its own requests. Cancelling the child does not affect s.
func (s *Signal) Child() *Signal {
	return deriveSignal(s.ctx)
}

// Request asks every task observing the signal to stop at its next
// suspension point. It is idempotent; the first call wins and the cause is
// never overwritten. A nil cause is recorded as [ErrCancelled].
func (s *Signal) Request(cause error) {
	if cause == nil {
		cause = ErrCancelled
	}
	s.cancel(cause)
}

// Requested reports whether cancellation has been requested on this signal
// or any signal it was derived from.
func (s *Signal) Requested() bool {
	return s.ctx.Err() != nil
}

// Done returns a channel closed when cancellation is requested.
func (s *Signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Cause returns the cancellation cause, or nil while the signal is active.
func (s *Signal) Cause() error {
	return context.Cause(s.ctx)
}

// State returns the signal's current tri-state.
func (s *Signal) State() SignalState {
	if s.finalized.Load() {
		return SignalCancelled
	}
	if s.ctx.Err() != nil {
		return SignalRequested
	}
	return SignalActive
}

// Context returns a context cancelled when the signal is requested, for
// interop with context-aware APIs.
func (s *Signal) Context() context.Context {
	return s.ctx
}

// finalize marks the signal Cancelled. Called when the owning task reaches
// its Cancelled terminal state.
func (s *Signal) finalize() {
	s.finalized.Store(true)
}
