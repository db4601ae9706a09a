// Package task provides the building blocks of the runtime: task handles
// with a single-assignment terminal state, cooperative cancellation signals
// propagated through task trees, and immutable launch contexts carrying a
// label and an execution dispatcher.
//
// Cancellation is cooperative. A task observes a cancellation request only
// at suspension points ([Context.Check], [Context.Sleep], [Context.Yield],
// and blocking operations driven by [Context.Std]). A task that computes
// without ever reaching a suspension point is not interruptible, and Join
// on it blocks until the task returns on its own.
package task
