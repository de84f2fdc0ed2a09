package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMonitor(runner Runner, opts Options) *Monitor {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.WaitTime == 0 {
		opts.WaitTime = 5 * time.Millisecond
	}
	if opts.PingInterval == 0 {
		opts.PingInterval = time.Millisecond
	}
	return New(runner, opts)
}

func waitForCount(t *testing.T, counter *atomic.Int64, minimum int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return counter.Load() >= minimum
	}, 2*time.Second, time.Millisecond)
}

func TestMonitor_RunsPeriodically(t *testing.T) {
	t.Parallel()

	var count atomic.Int64
	m := newTestMonitor(RunnerFunc(func(ctx context.Context) error {
		count.Add(1)
		return nil
	}), Options{ID: "periodic"})

	m.Start()
	defer m.Stop()

	waitForCount(t, &count, 3)

	snapshot := m.Snapshot()
	assert.Equal(t, "periodic", snapshot.ID)
	assert.True(t, snapshot.Active)
	assert.True(t, snapshot.Started)
	assert.False(t, snapshot.Finished)
}

func TestMonitor_Stop(t *testing.T) {
	t.Parallel()

	var count atomic.Int64
	m := newTestMonitor(RunnerFunc(func(ctx context.Context) error {
		count.Add(1)
		return nil
	}), Options{WaitTime: time.Hour, PingInterval: time.Millisecond})

	m.Start()
	waitForCount(t, &count, 1)

	// despite the one hour wait time Stop returns promptly
	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop in time")
	}

	snapshot := m.Snapshot()
	assert.False(t, snapshot.Active)
	assert.True(t, snapshot.Finished)

	// stopping again is a no-op
	m.Stop()
}

func TestMonitor_RestartsAfterError(t *testing.T) {
	t.Parallel()

	var count atomic.Int64
	m := newTestMonitor(RunnerFunc(func(ctx context.Context) error {
		if count.Add(1) == 1 {
			return errors.New("first execution fails")
		}
		return nil
	}), Options{})

	m.Start()
	defer m.Stop()

	waitForCount(t, &count, 3)
}

func TestMonitor_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	var count atomic.Int64
	m := newTestMonitor(RunnerFunc(func(ctx context.Context) error {
		if count.Add(1) == 1 {
			panic("first execution panics")
		}
		return nil
	}), Options{})

	m.Start()
	defer m.Stop()

	waitForCount(t, &count, 3)
}

func TestMonitor_StartWhileActive(t *testing.T) {
	t.Parallel()

	var count atomic.Int64
	m := newTestMonitor(RunnerFunc(func(ctx context.Context) error {
		count.Add(1)
		return nil
	}), Options{})

	m.Start()
	m.Start()
	waitForCount(t, &count, 1)
	m.Stop()

	assert.False(t, m.Snapshot().Active)
}

func TestMonitor_Restart(t *testing.T) {
	t.Parallel()

	var count atomic.Int64
	m := newTestMonitor(RunnerFunc(func(ctx context.Context) error {
		count.Add(1)
		return nil
	}), Options{})

	m.Start()
	waitForCount(t, &count, 1)
	m.Stop()

	resumed := count.Load()
	m.Start()
	waitForCount(t, &count, resumed+1)
	m.Stop()
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	m := New(RunnerFunc(func(ctx context.Context) error { return nil }),
		Options{WaitTime: time.Minute, Logger: zap.NewNop()})

	assert.NotEmpty(t, m.ID())
	snapshot := m.Snapshot()
	assert.False(t, snapshot.Started)
	assert.Equal(t, time.Minute, snapshot.WaitTime)
}
