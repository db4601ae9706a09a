package task

import (
	"errors"
	"testing"
	"time"
)

func TestSignalRequestMonotonic(t *testing.T) {
	t.Parallel()
	s := NewSignal()
	if s.State() != SignalActive {
		t.Fatalf("expected Active, got %v", s.State())
	}
	first := errors.New("first")
	s.Request(first)
	s.Request(errors.New("second"))
	if s.State() != SignalRequested {
		t.Fatalf("expected CancellationRequested, got %v", s.State())
	}
	if !errors.Is(s.Cause(), first) {
		t.Fatalf("first cause should win, got %v", s.Cause())
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("Done channel should be closed after Request")
	}
}

func TestSignalNilCauseBecomesErrCancelled(t *testing.T) {
	t.Parallel()
	s := NewSignal()
	s.Request(nil)
	if !errors.Is(s.Cause(), ErrCancelled) {
		t.Fatalf("expected ErrCancelled cause, got %v", s.Cause())
	}
}

func TestSignalChildObservesParentRequest(t *testing.T) {
	t.Parallel()
	parent := NewSignal()
	child := parent.Child()
	grandchild := child.Child()

	parent.Request(errors.New("stop"))
	for _, s := range []*Signal{child, grandchild} {
		select {
		case <-s.Done():
		case <-time.After(200 * time.Millisecond):
			t.Fatal("descendant signal did not observe parent's request")
		}
		if !s.Requested() {
			t.Fatal("descendant should report Requested")
		}
	}
}

func TestSignalChildRequestStaysInSubtree(t *testing.T) {
	t.Parallel()
	parent := NewSignal()
	child := parent.Child()
	child.Request(errors.New("stop"))
	if parent.Requested() {
		t.Fatal("child request must not propagate upward")
	}
}
