// Package errgroup provides an adapter that mimics golang.org/x/sync/errgroup
// semantics using the runtime's scope implementation. It enables incremental
// migration of errgroup call sites without rewriting them against tasks.
package errgroup

import (
	"context"
	"sync"

	"github.com/NetPo4ki/taskrun/scope"
	"github.com/NetPo4ki/taskrun/task"
)

// Group is an errgroup-like wrapper over a FailFast scope.
type Group struct {
	s    *scope.Scope
	ctx  context.Context
	stop func()
}

// WithContext creates a Group whose tasks are cancelled when ctx is. The
// returned context is cancelled when any function passed to Go returns a
// non-nil error.
func WithContext(ctx context.Context) (*Group, context.Context) {
	s := scope.New(nil, scope.FailFast)
	g := &Group{s: s, ctx: s.Context().Std()}

	// Bridge external context cancellation into the scope. The bridge is
	// torn down in Wait so it never outlives the group.
	if ctx != nil && ctx.Done() != nil {
		stopped := make(chan struct{})
		g.stop = sync.OnceFunc(func() { close(stopped) })
		go func() {
			select {
			case <-ctx.Done():
				s.Cancel(ctx.Err())
			case <-s.Context().Done():
			case <-stopped:
			}
		}()
	}
	return g, g.ctx
}

// Go starts a function as a task. It should return a non-nil error to
// signal failure.
func (g *Group) Go(f func() error) {
	if f == nil {
		return
	}
	g.s.Launch(func(*task.Context) error {
		return f()
	})
}

// Wait blocks until all functions have returned. It returns the first
// non-nil error (FailFast semantics) or nil on success.
func (g *Group) Wait() error {
	err := g.s.Wait()
	if g.stop != nil {
		g.stop()
	}
	return err
}
