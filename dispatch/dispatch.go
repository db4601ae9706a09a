package dispatch

import "github.com/NetPo4ki/taskrun/task"

type inline struct{}

func (inline) Dispatch(run func()) { run() }

// Inline returns a dispatcher that executes each task synchronously on the
// launching goroutine. There is no real concurrency: Launch returns only
// after the task is terminal. Intended for trivial or cheap work.
func Inline() task.Dispatcher { return inline{} }

type goroutines struct{}

func (goroutines) Dispatch(run func()) { go run() }

// Goroutines returns a stateless dispatcher that runs every task on its
// own goroutine. This matches the behavior of a context with no dispatcher
// set; the value exists so the policy can be named in an override.
func Goroutines() task.Dispatcher { return goroutines{} }
