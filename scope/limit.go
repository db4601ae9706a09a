package scope

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// limiter bounds concurrent tasks within a scope. Waiting for a slot is a
// suspension point: it aborts with the context's cancellation error as
// soon as the scope's signal is requested.
type limiter struct {
	sem *semaphore.Weighted
}

func newLimiter(n int) *limiter {
	if n <= 0 {
		return nil
	}
	return &limiter{sem: semaphore.NewWeighted(int64(n))}
}

func (l *limiter) acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *limiter) release() {
	l.sem.Release(1)
}
