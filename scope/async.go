package scope

import "github.com/NetPo4ki/taskrun/task"

// Promise is the typed result slot of a task launched with [Async]. The
// value is readable exactly once the task is terminal; Await blocks until
// then.
type Promise[T any] struct {
	h   *task.Handle
	val T
}

// Async launches fn as a child task of s and returns a promise for its
// value. Like Launch, it returns immediately; the work runs per the
// resolved dispatcher.
func Async[T any](s *Scope, fn func(tc *task.Context) (T, error), opts ...task.LaunchOption) *Promise[T] {
	p := &Promise[T]{}
	p.h = s.Launch(func(tc *task.Context) error {
		v, err := fn(tc)
		if err != nil {
			return err
		}
		p.val = v
		return nil
	}, opts...)
	return p
}

// Handle returns the underlying task handle, for Join, Cancel, and
// completion listeners.
func (p *Promise[T]) Handle() *task.Handle { return p.h }

// Await blocks until the task is terminal, then returns its value, or
// propagates its error: the task's own error on failure, a
// *task.CancelledError on cancellation.
func (p *Promise[T]) Await() (T, error) {
	o := p.h.Join()
	if o.Kind == task.KindCompleted {
		return p.val, nil
	}
	var zero T
	return zero, o.Err
}
