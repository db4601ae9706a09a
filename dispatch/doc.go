// Package dispatch provides the built-in execution policies mapping tasks
// to workers: a fixed parallel worker pool, a single serialized worker, a
// goroutine-per-task strategy, and inline caller execution. Pools hold
// long-lived workers and are explicitly constructed and explicitly shut
// down; there is no ambient process-wide pool.
package dispatch
