package syncer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeTarget records calls. When block is set, calls wait for ctx or release.
type fakeTarget struct {
	mu      sync.Mutex
	calls   []string
	err     error
	block   bool
	release chan struct{}
	started chan struct{}
	pushes  atomic.Int32
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{release: make(chan struct{}), started: make(chan struct{}, 16)}
}

func (f *fakeTarget) do(ctx context.Context, call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	block, err := f.block, f.err
	f.mu.Unlock()
	f.started <- struct{}{}

	if block {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.release:
		}
	}
	return err
}

func (f *fakeTarget) Push(ctx context.Context, username string) error {
	f.pushes.Add(1)
	return f.do(ctx, "push:"+username)
}

func (f *fakeTarget) Pull(ctx context.Context, username string) error {
	return f.do(ctx, "pull:"+username)
}

func waitStatus(t *testing.T, job *Job) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, _ := job.Wait(ctx)
	require.True(t, st.State.Done(), "job did not finish")
	return st
}

func TestPushSucceeds(t *testing.T) {
	target := newFakeTarget()
	s := New(target)
	defer s.Close()

	job := s.Push(context.Background(), "ada")
	assert.NotEmpty(t, job.ID())

	st := waitStatus(t, job)
	assert.Equal(t, StateSucceeded, st.State)
	assert.NoError(t, st.Err)
	assert.Equal(t, OpPush, st.Op)
	assert.Equal(t, "ada", st.Username)
	assert.False(t, st.Finished.Before(st.Started))
	assert.Equal(t, []string{"push:ada"}, target.calls)

	latest, ok := s.Status()
	require.True(t, ok)
	assert.Equal(t, job.ID(), latest.ID)
}

func TestPullFailureIsVisible(t *testing.T) {
	target := newFakeTarget()
	target.err = errors.New("remote storage error: boom")
	s := New(target)
	defer s.Close()

	job := s.Pull(context.Background(), "ada")
	st, err := job.Wait(context.Background())
	assert.Equal(t, StateFailed, st.State)
	assert.EqualError(t, err, "remote storage error: boom")
	assert.Equal(t, int32(0), target.pushes.Load())

	latest, ok := s.Status()
	require.True(t, ok)
	assert.Equal(t, StateFailed, latest.State, "failed jobs stay failed")
}

func TestCancel(t *testing.T) {
	target := newFakeTarget()
	target.block = true
	s := New(target)
	defer s.Close()

	job := s.Push(context.Background(), "ada")
	<-target.started
	assert.Equal(t, StatePending, job.Status().State)

	job.Cancel()
	st := waitStatus(t, job)
	assert.Equal(t, StateCanceled, st.State)
	assert.ErrorIs(t, st.Err, context.Canceled)
}

func TestNewJobSupersedesPending(t *testing.T) {
	target := newFakeTarget()
	target.block = true
	s := New(target)
	defer s.Close()

	first := s.Push(context.Background(), "ada")
	<-target.started
	second := s.Pull(context.Background(), "ada")
	<-target.started

	assert.Equal(t, StateCanceled, waitStatus(t, first).State)
	assert.Equal(t, StatePending, second.Status().State)

	close(target.release)
	assert.Equal(t, StateSucceeded, waitStatus(t, second).State)

	latest, ok := s.Status()
	require.True(t, ok)
	assert.Equal(t, second.ID(), latest.ID)
}

func TestTimeout(t *testing.T) {
	target := newFakeTarget()
	target.block = true
	s := New(target, WithTimeout(20*time.Millisecond))
	defer s.Close()

	st := waitStatus(t, s.Push(context.Background(), "ada"))
	assert.Equal(t, StateFailed, st.State)
	assert.ErrorIs(t, st.Err, context.DeadlineExceeded)
}

func TestParentContextCancel(t *testing.T) {
	target := newFakeTarget()
	target.block = true
	s := New(target)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	job := s.Push(ctx, "ada")
	<-target.started
	cancel()
	assert.Equal(t, StateCanceled, waitStatus(t, job).State)
}

func TestWaitHonorsContext(t *testing.T) {
	target := newFakeTarget()
	target.block = true
	s := New(target)
	defer s.Close()

	job := s.Push(context.Background(), "ada")
	<-target.started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	st, err := job.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatePending, st.State)
}

func TestClose(t *testing.T) {
	target := newFakeTarget()
	target.block = true
	s := New(target)

	job := s.Push(context.Background(), "ada")
	<-target.started
	require.NoError(t, s.Close())
	assert.Equal(t, StateCanceled, job.Status().State)

	after := s.Push(context.Background(), "ada")
	st := waitStatus(t, after)
	assert.Equal(t, StateFailed, st.State)
	assert.ErrorIs(t, st.Err, ErrClosed)
	require.NoError(t, s.Close(), "close is idempotent")
}

func TestStatusBeforeAnyJob(t *testing.T) {
	s := New(newFakeTarget())
	defer s.Close()
	_, ok := s.Status()
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "canceled", StateCanceled.String())
	assert.Equal(t, "unknown", State(42).String())
}
