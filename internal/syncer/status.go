package syncer

import "time"

// Op names the direction of a sync job.
type Op string

// Sync operations.
const (
	OpPush Op = "push"
	OpPull Op = "pull"
)

// State is the lifecycle state of a sync job.
type State int

// Job states. A job starts Pending and ends in exactly one of the others.
const (
	StatePending State = iota
	StateSucceeded
	StateFailed
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCanceled:
		return "canceled"
	}
	return "unknown"
}

// Done reports whether the state is final.
func (s State) Done() bool {
	return s != StatePending
}

// Status is a point-in-time view of a job.
type Status struct {
	ID       string
	Op       Op
	Username string
	State    State
	Err      error
	Started  time.Time
	Finished time.Time
}

// Elapsed returns how long the job ran, or has been running.
func (s Status) Elapsed() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}
