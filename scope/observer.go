package scope

import (
	"time"

	"github.com/NetPo4ki/taskrun/task"
)

// Observer receives scope and task lifecycle events. Implementations must
// be safe for concurrent use; hooks run on task goroutines and must not
// block. See observe/prom for a Prometheus-backed implementation.
type Observer interface {
	ScopeCreated(label string)
	ScopeCancelled(label string, cause error)
	ScopeJoined(label string, wait time.Duration)
	TaskStarted(label string)
	TaskFinished(label string, dur time.Duration, outcome task.Outcome)
}
