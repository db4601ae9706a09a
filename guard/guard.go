// Package guard provides scoped resource acquisition: the release action
// runs exactly once on every exit path of the guarded block, including
// error returns, panics, and cancellation aborts at suspension points
// inside the block. A failing release never masks the block's own outcome;
// it is logged as secondary.
package guard

import (
	"io"
	"log/slog"

	"github.com/NetPo4ki/taskrun/task"
)

// Do runs fn with res and closes res exactly once when fn exits, on every
// exit path. The error returned is fn's; a Close failure is logged via
// slog and otherwise discarded, so the original outcome always wins.
func Do(tc *task.Context, res io.Closer, fn func(tc *task.Context) error) error {
	defer release(tc, func() error { return res.Close() })
	return fn(tc)
}

// Acquire obtains a resource, runs fn with it, and releases it exactly
// once when fn exits. If acquisition fails, fn never runs and the
// acquisition error is returned. Release failures are logged as secondary
// and never mask fn's result.
func Acquire[R any](
	tc *task.Context,
	acquire func(tc *task.Context) (R, error),
	releaseFn func(r R) error,
	fn func(tc *task.Context, r R) error,
) error {
	r, err := acquire(tc)
	if err != nil {
		return err
	}
	defer release(tc, func() error { return releaseFn(r) })
	return fn(tc, r)
}

func release(tc *task.Context, close func() error) {
	if err := close(); err != nil {
		slog.Warn("guard: resource release failed",
			slog.String("task", tc.Label()),
			slog.Any("error", err))
	}
}
