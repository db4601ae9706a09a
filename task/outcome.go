package task

import "fmt"

// Kind classifies a terminal task outcome.
type Kind int

const (
	// KindCompleted means the task function returned nil.
	KindCompleted Kind = iota

	// KindFailed means the task function returned a non-cancellation error
	// or panicked.
	KindFailed

	// KindCancelled means the task aborted at a suspension point after a
	// cancellation request, or was cancelled before it started running.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindCompleted:
		return "Completed"
	case KindFailed:
		return "Failed"
	case KindCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("invalid outcome kind: %d", int(k))
	}
}

// Outcome is the terminal result of a task. Err is nil for KindCompleted,
// the task's error for KindFailed, and a *CancelledError for KindCancelled.
type Outcome struct {
	Kind Kind
	Err  error
}

// State is the lifecycle state of a task.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateCancelling
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateRunning:
		return "Running"
	case StateCancelling:
		return "Cancelling"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	case StateCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("invalid state: %d", int32(s))
	}
}

// Terminal reports whether the state is final. A task's terminal state is
// set exactly once; later transitions are no-ops.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	default:
		return false
	}
}
