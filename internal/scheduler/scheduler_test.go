package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyAt(t *testing.T) {
	spec, err := DailyAt("02:00")
	require.NoError(t, err)
	assert.Equal(t, "0 2 * * *", spec)

	spec, err = DailyAt("23:45")
	require.NoError(t, err)
	assert.Equal(t, "45 23 * * *", spec)

	_, err = DailyAt("2am")
	assert.Error(t, err)
}

func TestEvery(t *testing.T) {
	assert.Equal(t, "@every 30m0s", Every(30*time.Minute))
}

func noop(context.Context) error { return nil }

func TestAdd_Validation(t *testing.T) {
	s := New(nil, time.UTC)
	require.NoError(t, s.Add(Job{Name: "a", Spec: "@every 1h", Task: noop}))
	assert.Error(t, s.Add(Job{Name: "a", Spec: "@every 1h", Task: noop}))
	assert.Error(t, s.Add(Job{Name: "b", Spec: "@every 1h"}))
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New(nil, time.UTC)
	require.NoError(t, s.Add(Job{Name: "bad", Spec: "not a spec", Task: noop}))
	assert.Error(t, s.Start(context.Background()))
}

func TestRunOnStart(t *testing.T) {
	var calls atomic.Int32
	s := New(nil, time.UTC)
	require.NoError(t, s.Add(Job{Name: "cycle", Spec: "@every 1h", RunOnStart: true, Task: func(context.Context) error {
		calls.Add(1)
		return errors.New("logged, not fatal")
	}}))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	next, ok := s.Next("cycle")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, 5*time.Second)
}

func TestTickFires(t *testing.T) {
	var calls atomic.Int32
	s := New(nil, time.UTC)
	require.NoError(t, s.Add(Job{Name: "fast", Spec: "@every 1s", Task: func(context.Context) error {
		calls.Add(1)
		return nil
	}}))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestTrigger_SkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	s := New(nil, time.UTC)
	require.NoError(t, s.Add(Job{Name: "slow", Spec: "@every 1h", Task: func(ctx context.Context) error {
		close(entered)
		<-release
		return nil
	}}))

	assert.False(t, s.Trigger("slow"), "not started yet")
	require.NoError(t, s.Start(context.Background()))

	done := make(chan bool)
	go func() { done <- s.Trigger("slow") }()
	<-entered

	assert.False(t, s.Trigger("slow"))
	assert.False(t, s.Trigger("missing"))

	close(release)
	assert.True(t, <-done)
	s.Stop()
}

func TestStop_CancelsTaskContext(t *testing.T) {
	started := make(chan struct{})
	var canceled atomic.Bool
	s := New(nil, time.UTC)
	require.NoError(t, s.Add(Job{Name: "wait", Spec: "@every 1h", RunOnStart: true, Task: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		canceled.Store(true)
		return ctx.Err()
	}}))
	require.NoError(t, s.Start(context.Background()))
	<-started

	s.Stop()
	assert.True(t, canceled.Load())
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	s := New(nil, time.UTC)
	require.NoError(t, s.Add(Job{Name: "a", Spec: "@every 1h", Task: noop}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() { errCh <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
