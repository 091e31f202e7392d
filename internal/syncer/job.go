package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job is one push or pull. Its methods are safe for concurrent use.
type Job struct {
	id       string
	op       Op
	username string
	done     chan struct{}

	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
}

func newJob(op Op, username string) *Job {
	id := uuid.NewString()
	return &Job{
		id:       id,
		op:       op,
		username: username,
		done:     make(chan struct{}),
		status: Status{
			ID:       id,
			Op:       op,
			Username: username,
			State:    StatePending,
			Started:  time.Now(),
		},
	}
}

// ID returns the job's unique identifier.
func (j *Job) ID() string {
	return j.id
}

// Done is closed when the job reaches a final state.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Status returns a snapshot of the job's state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Cancel asks the job to stop. Cancelling a finished job has no effect.
func (j *Job) Cancel() {
	j.mu.Lock()
	cancel := j.cancel
	j.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the job finishes or ctx is done. It returns the final
// status and the job's error, or the current status and ctx's error.
func (j *Job) Wait(ctx context.Context) (Status, error) {
	select {
	case <-j.done:
		st := j.Status()
		return st, st.Err
	case <-ctx.Done():
		return j.Status(), ctx.Err()
	}
}

func (j *Job) setCancel(cancel context.CancelFunc) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancel = cancel
}

func (j *Job) finish(err error, state State) {
	j.mu.Lock()
	j.status.State = state
	j.status.Err = err
	j.status.Finished = time.Now()
	j.mu.Unlock()
	close(j.done)
}
