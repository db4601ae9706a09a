package task

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// ErrCancelled is the sentinel matched by every cancellation error produced
// by the runtime. Use errors.Is(err, ErrCancelled) or [IsCancelled].
var ErrCancelled = errors.New("task cancelled")

// CancelledError is returned from suspension points when the task's signal
// has a pending cancellation request. It carries the request cause.
type CancelledError struct {
	Cause error
}

func (e *CancelledError) Error() string {
	if e.Cause == nil || e.Cause == ErrCancelled {
		return "task cancelled"
	}
	return fmt.Sprintf("task cancelled: %v", e.Cause)
}

func (e *CancelledError) Is(target error) bool { return target == ErrCancelled }

func (e *CancelledError) Unwrap() error { return e.Cause }

// IsCancelled reports whether err marks cooperative cancellation rather
// than failure. Context cancellation errors count: a task that returns
// ctx.Err() from its Std context after a cancellation request is treated
// as cancelled, not failed.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// PanicError wraps a panic recovered from a task function, together with
// the stack captured at the point of the panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Unwrap returns the error passed to panic, or nil if the panic value was
// not an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// NewPanicError captures the current stack and wraps the recovered value v.
func NewPanicError(v any) *PanicError {
	return newPanicError(v)
}

func newPanicError(v any) *PanicError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{Value: v, Stack: buf[:n]}
}
