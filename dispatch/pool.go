package dispatch

import (
	"sync"
	"sync/atomic"
)

// Pool is a fixed-size worker pool dispatcher. Tasks are queued FIFO and
// picked up by long-lived workers; with one worker, tasks execute strictly
// one at a time in dispatch order. A Pool must be shut down explicitly.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	closed  atomic.Bool
	workers int
}

// PoolOption configures a Pool.
type PoolOption func(*poolConfig)

type poolConfig struct {
	queueSize int
}

// WithQueueSize sets the dispatch queue buffer size. The default is twice
// the worker count. Dispatch blocks while the queue is full.
func WithQueueSize(size int) PoolOption {
	return func(c *poolConfig) {
		if size < 0 {
			panic("dispatch: WithQueueSize requires non-negative size")
		}
		c.queueSize = size
	}
}

// Parallel creates a pool of n independent workers. Tasks are distributed
// for throughput; there is no ordering guarantee between tasks picked up
// by different workers. Panics if n <= 0.
func Parallel(n int, opts ...PoolOption) *Pool {
	if n <= 0 {
		panic("dispatch: Parallel requires n > 0")
	}
	cfg := poolConfig{queueSize: n * 2}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool{
		tasks:   make(chan func(), cfg.queueSize),
		workers: n,
	}
	p.wg.Add(n)
	for range n {
		go p.worker()
	}
	return p
}

// Serial creates a pool with exactly one worker, forcing total ordering of
// task execution in dispatch order. Useful for deterministic interleaving.
func Serial(opts ...PoolOption) *Pool {
	return Parallel(1, opts...)
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for run := range p.tasks {
		run()
	}
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int { return p.workers }

// Dispatch queues run for execution, blocking while the queue is full.
// Panics if the pool has been shut down.
func (p *Pool) Dispatch(run func()) {
	if p.closed.Load() {
		panic("dispatch: Dispatch called after pool shutdown")
	}
	// Guard the race between the check above and a concurrent Shutdown
	// closing the channel, so the failure mode is the same either way.
	defer func() {
		if recover() != nil {
			panic("dispatch: Dispatch called after pool shutdown")
		}
	}()
	p.tasks <- run
}

// Shutdown stops accepting tasks, drains the queue, and waits for workers
// to exit. Safe to call multiple times.
func (p *Pool) Shutdown() {
	if p.closed.CompareAndSwap(false, true) {
		close(p.tasks)
	}
	p.wg.Wait()
}
