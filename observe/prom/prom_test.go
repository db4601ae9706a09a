package prom

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/NetPo4ki/taskrun/scope"
	"github.com/NetPo4ki/taskrun/task"
)

func TestObserverCounts(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	obs := New(reg)

	s := scope.New(nil, scope.Supervisor, scope.WithObserver(obs), scope.WithLabel("job"))
	s.Launch(func(*task.Context) error { return nil })
	s.Launch(func(*task.Context) error { return errors.New("boom") })
	h := s.Launch(func(tc *task.Context) error {
		return tc.Sleep(5 * time.Second)
	})
	time.Sleep(20 * time.Millisecond) // let the slow task start
	h.Cancel(errors.New("stop"))
	_ = s.Wait()

	if got := testutil.ToFloat64(obs.scopesCreated); got != 1 {
		t.Fatalf("scopes_created_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(obs.tasksStarted.WithLabelValues("job")); got != 3 {
		t.Fatalf("tasks_started_total = %v, want 3", got)
	}
	for kind, want := range map[string]float64{
		"Completed": 1,
		"Failed":    1,
		"Cancelled": 1,
	} {
		if got := testutil.ToFloat64(obs.tasksFinished.WithLabelValues("job", kind)); got != want {
			t.Fatalf("tasks_finished_total{outcome=%q} = %v, want %v", kind, got, want)
		}
	}
	if got := testutil.ToFloat64(obs.activeTasks); got != 0 {
		t.Fatalf("tasks_active = %v, want 0 after Wait", got)
	}
}

func TestObserverRegistersAllCollectors(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	New(reg)
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	// Vec collectors without observations gather empty; the plain ones
	// must be present from the start.
	want := map[string]bool{
		"taskrun_tasks_active":            false,
		"taskrun_scopes_created_total":    false,
		"taskrun_scopes_cancelled_total":  false,
		"taskrun_task_duration_seconds":   false,
		"taskrun_scope_join_wait_seconds": false,
	}
	for _, f := range families {
		if _, ok := want[f.GetName()]; ok {
			want[f.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("collector %s not registered", name)
		}
	}
}
