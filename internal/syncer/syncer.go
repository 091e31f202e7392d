// Package syncer runs push and pull against the remote document store in
// the background. Only one job runs at a time: starting a new job cancels
// the one in flight, so the latest request wins. Jobs are never retried;
// a failed job stays failed until the caller starts another.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single job when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ErrClosed is the error of jobs started after Close.
var ErrClosed = errors.New("syncer is closed")

// Target performs the actual transfer. *store.Store satisfies it.
type Target interface {
	Push(ctx context.Context, username string) error
	Pull(ctx context.Context, username string) error
}

// Option is a functional option for configuring a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger used for job events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeout bounds each job. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) {
		s.timeout = d
	}
}

// Syncer schedules push and pull jobs.
type Syncer struct {
	target  Target
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	current *Job
	closed  bool
	wg      sync.WaitGroup
}

// New creates a Syncer that transfers through target.
func New(target Target, opts ...Option) *Syncer {
	s := &Syncer{
		target:  target,
		logger:  zap.NewNop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push starts uploading the graph for username and returns at once.
func (s *Syncer) Push(ctx context.Context, username string) *Job {
	return s.start(ctx, OpPush, username)
}

// Pull starts downloading the graph for username and returns at once.
func (s *Syncer) Pull(ctx context.Context, username string) *Job {
	return s.start(ctx, OpPull, username)
}

// Status returns the status of the most recent job, if any.
func (s *Syncer) Status() (Status, bool) {
	s.mu.Lock()
	job := s.current
	s.mu.Unlock()
	if job == nil {
		return Status{}, false
	}
	return job.Status(), true
}

// Close cancels the job in flight and waits for it to finish. Jobs started
// afterwards fail immediately with ErrClosed.
func (s *Syncer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	job := s.current
	s.mu.Unlock()

	if job != nil {
		job.Cancel()
	}
	s.wg.Wait()
	return nil
}

func (s *Syncer) start(ctx context.Context, op Op, username string) *Job {
	job := newJob(op, username)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		job.finish(fmt.Errorf("%s: %w", op, ErrClosed), StateFailed)
		return job
	}
	prev := s.current
	s.current = job

	jobCtx, cancel := context.WithCancel(ctx)
	if s.timeout > 0 {
		var cancelTimeout context.CancelFunc
		jobCtx, cancelTimeout = context.WithTimeout(jobCtx, s.timeout)
		parent := cancel
		cancel = func() {
			cancelTimeout()
			parent()
		}
	}
	job.setCancel(cancel)
	s.wg.Add(1)
	s.mu.Unlock()

	if prev != nil && !prev.Status().State.Done() {
		s.logger.Info("sync job superseded",
			zap.String("job", prev.id),
			zap.String("by", job.id))
		prev.Cancel()
	}

	s.logger.Info("sync job started",
		zap.String("job", job.id),
		zap.String("op", string(op)),
		zap.String("username", username))

	go func() {
		defer s.wg.Done()
		defer cancel()
		s.run(jobCtx, job)
	}()
	return job
}

func (s *Syncer) run(ctx context.Context, job *Job) {
	var err error
	switch job.op {
	case OpPush:
		err = s.target.Push(ctx, job.username)
	case OpPull:
		err = s.target.Pull(ctx, job.username)
	default:
		err = fmt.Errorf("unknown sync op %q", job.op)
	}

	state := StateSucceeded
	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.Canceled):
		state = StateCanceled
	default:
		state = StateFailed
	}
	job.finish(err, state)

	st := job.Status()
	fields := []zap.Field{
		zap.String("job", st.ID),
		zap.String("op", string(st.Op)),
		zap.String("username", st.Username),
		zap.Stringer("state", st.State),
		zap.Duration("elapsed", st.Elapsed()),
	}
	if state == StateFailed {
		s.logger.Warn("sync job failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("sync job finished", fields...)
}
