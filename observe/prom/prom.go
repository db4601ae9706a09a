// Package prom provides a Prometheus-backed scope.Observer. Counters are
// partitioned by task label and outcome kind; durations go to histograms.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NetPo4ki/taskrun/task"
)

// Observer implements scope.Observer on top of Prometheus collectors.
type Observer struct {
	tasksStarted  *prometheus.CounterVec
	tasksFinished *prometheus.CounterVec
	activeTasks   prometheus.Gauge
	taskDuration  prometheus.Histogram

	scopesCreated   prometheus.Counter
	scopesCancelled prometheus.Counter
	joinWait        prometheus.Histogram
}

// New creates an Observer and registers its collectors with reg. Pass
// prometheus.DefaultRegisterer to use the default registry. New panics on
// duplicate registration, matching MustRegister.
func New(reg prometheus.Registerer) *Observer {
	o := &Observer{
		tasksStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskrun",
			Name:      "tasks_started_total",
			Help:      "Tasks that began executing, by label.",
		}, []string{"label"}),
		tasksFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskrun",
			Name:      "tasks_finished_total",
			Help:      "Tasks that reached a terminal state, by label and outcome.",
		}, []string{"label", "outcome"}),
		activeTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "taskrun",
			Name:      "tasks_active",
			Help:      "Tasks currently executing.",
		}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "taskrun",
			Name:      "task_duration_seconds",
			Help:      "Wall-clock task execution time.",
			Buckets:   prometheus.DefBuckets,
		}),
		scopesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskrun",
			Name:      "scopes_created_total",
			Help:      "Scopes created.",
		}),
		scopesCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskrun",
			Name:      "scopes_cancelled_total",
			Help:      "Scopes that received a cancellation request.",
		}),
		joinWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "taskrun",
			Name:      "scope_join_wait_seconds",
			Help:      "Time spent in Wait joining a scope's tasks.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		o.tasksStarted, o.tasksFinished, o.activeTasks, o.taskDuration,
		o.scopesCreated, o.scopesCancelled, o.joinWait,
	)
	return o
}

// ScopeCreated records scope creation.
func (o *Observer) ScopeCreated(_ string) {
	o.scopesCreated.Inc()
}

// ScopeCancelled records a scope cancellation request.
func (o *Observer) ScopeCancelled(_ string, _ error) {
	o.scopesCancelled.Inc()
}

// ScopeJoined records the join wait time of a scope.
func (o *Observer) ScopeJoined(_ string, wait time.Duration) {
	o.joinWait.Observe(wait.Seconds())
}

// TaskStarted increments the active gauge and the started counter.
func (o *Observer) TaskStarted(label string) {
	o.activeTasks.Inc()
	o.tasksStarted.WithLabelValues(label).Inc()
}

// TaskFinished decrements the active gauge and records outcome and duration.
func (o *Observer) TaskFinished(label string, dur time.Duration, outcome task.Outcome) {
	o.activeTasks.Dec()
	o.tasksFinished.WithLabelValues(label, outcome.Kind.String()).Inc()
	o.taskDuration.Observe(dur.Seconds())
}
