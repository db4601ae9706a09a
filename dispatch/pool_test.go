package dispatch

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/NetPo4ki/taskrun/task"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSerialExecutesInLaunchOrder(t *testing.T) {
	t.Parallel()
	pool := Serial()
	defer pool.Shutdown()

	const n = 20
	var mu sync.Mutex
	var order []int
	handles := make([]*task.Handle, 0, n)
	parent := task.Background().WithDispatcher(pool)
	for i := range n {
		handles = append(handles, task.Launch(parent, func(*task.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		}))
	}
	for _, h := range handles {
		require.Equal(t, task.KindCompleted, h.Join().Kind)
	}

	expected := make([]int, n)
	for i := range expected {
		expected[i] = i
	}
	assert.Equal(t, expected, order, "serialized worker must preserve launch order")
}

func TestParallelRunsConcurrently(t *testing.T) {
	t.Parallel()
	const n = 4
	pool := Parallel(n)
	defer pool.Shutdown()

	var arrived sync.WaitGroup
	arrived.Add(n)
	release := make(chan struct{})
	parent := task.Background().WithDispatcher(pool)

	handles := make([]*task.Handle, 0, n)
	for range n {
		handles = append(handles, task.Launch(parent, func(*task.Context) error {
			arrived.Done()
			<-release
			return nil
		}))
	}

	// All n tasks must be in flight at once; a smaller pool would deadlock
	// here, so bound the wait with a watchdog.
	done := make(chan struct{})
	go func() {
		arrived.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run concurrently on the parallel pool")
	}
	close(release)
	for _, h := range handles {
		assert.Equal(t, task.KindCompleted, h.Join().Kind)
	}
}

func TestParallelBoundsConcurrency(t *testing.T) {
	t.Parallel()
	const n = 3
	pool := Parallel(n, WithQueueSize(64))
	defer pool.Shutdown()

	var cur, maxSeen atomic.Int64
	parent := task.Background().WithDispatcher(pool)
	handles := make([]*task.Handle, 0, 30)
	for range 30 {
		handles = append(handles, task.Launch(parent, func(*task.Context) error {
			c := cur.Add(1)
			defer cur.Add(-1)
			if m := maxSeen.Load(); c > m {
				maxSeen.CompareAndSwap(m, c)
			}
			time.Sleep(time.Millisecond)
			return nil
		}))
	}
	for _, h := range handles {
		h.Join()
	}
	assert.LessOrEqual(t, maxSeen.Load(), int64(n))
}

func TestInlineRunsSynchronously(t *testing.T) {
	t.Parallel()
	ran := false
	h := task.Launch(nil, func(*task.Context) error {
		ran = true
		return nil
	}, task.WithDispatcher(Inline()))

	// No synchronization: with inline execution the task is terminal
	// before Launch returns.
	require.True(t, ran)
	require.Equal(t, task.StateCompleted, h.State())
}

func TestGoroutinesDispatcher(t *testing.T) {
	t.Parallel()
	h := task.Launch(nil, func(*task.Context) error { return nil },
		task.WithDispatcher(Goroutines()))
	require.Equal(t, task.KindCompleted, h.Join().Kind)
}

func TestShutdownDrainsQueue(t *testing.T) {
	t.Parallel()
	pool := Serial(WithQueueSize(32))
	var completed atomic.Int64
	parent := task.Background().WithDispatcher(pool)
	for range 10 {
		task.Launch(parent, func(*task.Context) error {
			completed.Add(1)
			return nil
		})
	}
	pool.Shutdown()
	assert.Equal(t, int64(10), completed.Load(), "shutdown must drain queued tasks")
}

func TestDispatchAfterShutdownPanics(t *testing.T) {
	t.Parallel()
	pool := Parallel(2)
	pool.Shutdown()
	require.PanicsWithValue(t, "dispatch: Dispatch called after pool shutdown", func() {
		pool.Dispatch(func() {})
	})
}

func TestShutdownIdempotent(t *testing.T) {
	t.Parallel()
	pool := Parallel(2)
	pool.Shutdown()
	pool.Shutdown()
}
